package text

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/display/internal/cache"
)

// DefaultGlyphCacheSize bounds the rasterized glyphs kept per face.
const DefaultGlyphCacheSize = 512

// FaceOption configures an OpenTypeFace.
type FaceOption func(*faceConfig)

type faceConfig struct {
	size      float64
	dpi       float64
	hinting   font.Hinting
	cacheSize int
	mono      bool
	threshold uint8
	shaping   bool
}

func defaultFaceConfig() faceConfig {
	return faceConfig{
		size:      12,
		dpi:       72,
		hinting:   font.HintingFull,
		cacheSize: DefaultGlyphCacheSize,
		threshold: 128,
	}
}

// WithSize sets the face size in points.
func WithSize(points float64) FaceOption {
	return func(c *faceConfig) { c.size = points }
}

// WithDPI sets the resolution used to convert points to pixels.
func WithDPI(dpi float64) FaceOption {
	return func(c *faceConfig) {
		if dpi > 0 {
			c.dpi = dpi
		}
	}
}

// WithHinting sets outline hinting.
func WithHinting(h font.Hinting) FaceOption {
	return func(c *faceConfig) { c.hinting = h }
}

// WithGlyphCache sets how many rasterized glyphs are cached. Zero means
// unbounded.
func WithGlyphCache(n int) FaceOption {
	return func(c *faceConfig) {
		if n >= 0 {
			c.cacheSize = n
		}
	}
}

// WithMono produces mono glyphs, setting pixels whose coverage is at
// least threshold.
func WithMono(threshold uint8) FaceOption {
	return func(c *faceConfig) {
		c.mono = true
		c.threshold = threshold
	}
}

// WithShaping lays out runs with HarfBuzz shaping instead of summing
// per-rune advances and kerning pairs.
func WithShaping() FaceOption {
	return func(c *faceConfig) { c.shaping = true }
}

// OpenTypeFace rasterizes glyphs from a TrueType or OpenType font.
type OpenTypeFace struct {
	mu     sync.Mutex // guards face; font.Face is not safe for concurrent use
	face   font.Face
	cfg    faceConfig
	glyphs *cache.Cache[rune, cachedGlyph]
	shaper *runShaper
}

type cachedGlyph struct {
	g  Glyph
	ok bool
}

// NewOpenTypeFace parses data and creates a face.
func NewOpenTypeFace(data []byte, opts ...FaceOption) (*OpenTypeFace, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	cfg := defaultFaceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.size <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSize, cfg.size)
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    cfg.size,
		DPI:     cfg.dpi,
		Hinting: cfg.hinting,
	})
	if err != nil {
		return nil, fmt.Errorf("text: create face: %w", err)
	}

	f := &OpenTypeFace{
		face:   face,
		cfg:    cfg,
		glyphs: cache.New[rune, cachedGlyph](cfg.cacheSize),
	}
	if cfg.shaping {
		f.shaper, err = newRunShaper(data, cfg.size*cfg.dpi/72)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// DefaultFace returns the Go Regular font at the given size in points.
func DefaultFace(points float64, opts ...FaceOption) (*OpenTypeFace, error) {
	return NewOpenTypeFace(goregular.TTF, append([]FaceOption{WithSize(points)}, opts...)...)
}

// Close releases the underlying face.
func (f *OpenTypeFace) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.face.Close()
}

// Glyph implements Face.
func (f *OpenTypeFace) Glyph(r rune) (Glyph, bool) {
	cg := f.glyphs.GetOrCreate(r, func() cachedGlyph {
		g, ok := f.rasterize(r)
		return cachedGlyph{g: g, ok: ok}
	})
	return cg.g, cg.ok
}

// CacheStats returns the glyph cache counters.
func (f *OpenTypeFace) CacheStats() cache.Stats {
	return f.glyphs.Stats()
}

func (f *OpenTypeFace) rasterize(r rune) (Glyph, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.Point26_6{}, r)
	adv := fixedToFloat(advance)
	if !ok {
		return Glyph{Rune: r, Format: FormatGray, Advance: adv}, false
	}

	g := Glyph{
		Rune:    r,
		Format:  FormatGray,
		Bounds:  dr,
		Stride:  dr.Dx(),
		Advance: adv,
	}
	if !dr.Empty() {
		dst := image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy()))
		draw.Draw(dst, dst.Bounds(), mask, maskp, draw.Src)
		g.Mask = dst.Pix
		g.Stride = dst.Stride
	}
	if f.cfg.mono {
		g = g.ToMono(f.cfg.threshold)
	}
	return g, true
}

// Advance implements Face.
func (f *OpenTypeFace) Advance(r rune) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	adv, _ := f.face.GlyphAdvance(r)
	return fixedToFloat(adv)
}

// Kern implements Face.
func (f *OpenTypeFace) Kern(prev, r rune) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fixedToFloat(f.face.Kern(prev, r))
}

// Metrics implements Face.
func (f *OpenTypeFace) Metrics() Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.face.Metrics()
	return Metrics{
		Ascent:  fixedToFloat(m.Ascent),
		Descent: math.Abs(fixedToFloat(m.Descent)),
		Height:  fixedToFloat(m.Height),
	}
}

// Positions implements Positioner when shaping is enabled. Without
// shaping it returns nil so callers fall back to advances.
func (f *OpenTypeFace) Positions(runes []rune) []float64 {
	if f.shaper == nil {
		return nil
	}
	return f.shaper.positions(runes)
}

// fixedToFloat converts a fixed.Int26_6 value to float64.
func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}

// floatToFixed converts a float64 size to fixed.Int26_6.
func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
