package text

import (
	"image"
	stdcolor "image/color"
	"sync"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/gogpu/display/internal/cache"
)

// BitmapFace produces mono glyphs from a tinyfont font.
type BitmapFace struct {
	mu     sync.Mutex // tinyfont fonts may reuse glyph state between calls
	font   tinyfont.Fonter
	glyphs *cache.Cache[rune, cachedGlyph]
}

// NewBitmapFace wraps f.
func NewBitmapFace(f tinyfont.Fonter) *BitmapFace {
	return &BitmapFace{
		font:   f,
		glyphs: cache.New[rune, cachedGlyph](DefaultGlyphCacheSize),
	}
}

// DefaultBitmapFace returns the 8 point ProggyTinySZ font.
func DefaultBitmapFace() *BitmapFace {
	return NewBitmapFace(&proggy.TinySZ8pt7b)
}

// Glyph implements Face.
func (f *BitmapFace) Glyph(r rune) (Glyph, bool) {
	cg := f.glyphs.GetOrCreate(r, func() cachedGlyph {
		g, ok := f.render(r)
		return cachedGlyph{g: g, ok: ok}
	})
	return cg.g, cg.ok
}

func (f *BitmapFace) render(r rune) (Glyph, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	gl := f.font.GetGlyph(r)
	info := gl.Info()
	bounds := image.Rect(
		int(info.XOffset), int(info.YOffset),
		int(info.XOffset)+int(info.Width), int(info.YOffset)+int(info.Height),
	)
	g := newMonoGlyph(r, bounds, float64(info.XAdvance))
	if info.Rune != r {
		return g, false
	}
	if bounds.Empty() {
		return g, true
	}
	d := &maskDisplay{g: &g}
	gl.Draw(d, int16(-info.XOffset), int16(-info.YOffset), stdcolor.RGBA{A: 255})
	return g, true
}

// Advance implements Face.
func (f *BitmapFace) Advance(r rune) float64 {
	g, _ := f.Glyph(r)
	return g.Advance
}

// Kern implements Face. Bitmap fonts have no kerning.
func (f *BitmapFace) Kern(prev, r rune) float64 { return 0 }

// Metrics implements Face.
func (f *BitmapFace) Metrics() Metrics {
	f.mu.Lock()
	h := float64(f.font.GetYAdvance())
	f.mu.Unlock()

	asc := h
	if g, ok := f.Glyph('M'); ok && !g.Bounds.Empty() {
		asc = float64(-g.Bounds.Min.Y)
	}
	return Metrics{Ascent: asc, Descent: h - asc, Height: h}
}

// maskDisplay is a drivers.Displayer that records set pixels into a mono
// glyph mask.
type maskDisplay struct {
	g *Glyph
}

var _ drivers.Displayer = (*maskDisplay)(nil)

func (d *maskDisplay) Size() (x, y int16) {
	return int16(d.g.Bounds.Dx()), int16(d.g.Bounds.Dy())
}

func (d *maskDisplay) SetPixel(x, y int16, c stdcolor.RGBA) {
	if c.A == 0 {
		return
	}
	d.g.setMono(int(x), int(y))
}

func (d *maskDisplay) Display() error { return nil }
