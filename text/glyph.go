package text

import "image"

// Format is the layout of a glyph mask.
type Format uint8

// Glyph mask formats.
const (
	// FormatMono stores one bit per pixel, most significant bit first.
	FormatMono Format = iota

	// FormatGray stores one coverage byte per pixel.
	FormatGray
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatGray {
		return "gray"
	}
	return "mono"
}

// Glyph is a rasterized glyph.
//
// Bounds is relative to the pen position on the baseline, with y growing
// downward. Mask holds Bounds.Dy() rows of Stride bytes.
type Glyph struct {
	Rune    rune
	Format  Format
	Bounds  image.Rectangle
	Stride  int
	Mask    []byte
	Advance float64
}

// Empty reports whether the glyph has no pixels.
func (g Glyph) Empty() bool {
	return g.Bounds.Empty() || len(g.Mask) == 0
}

// Coverage returns the coverage at (x, y) relative to Bounds.Min: 0 or 255
// for mono glyphs, 0..255 for gray glyphs.
func (g Glyph) Coverage(x, y int) uint8 {
	if x < 0 || y < 0 || x >= g.Bounds.Dx() || y >= g.Bounds.Dy() {
		return 0
	}
	if g.Format == FormatMono {
		if g.Mask[y*g.Stride+x>>3]&(0x80>>(x&7)) != 0 {
			return 255
		}
		return 0
	}
	return g.Mask[y*g.Stride+x]
}

// newMonoGlyph allocates a cleared mono mask for bounds.
func newMonoGlyph(r rune, bounds image.Rectangle, advance float64) Glyph {
	stride := (bounds.Dx() + 7) / 8
	return Glyph{
		Rune:    r,
		Format:  FormatMono,
		Bounds:  bounds,
		Stride:  stride,
		Mask:    make([]byte, stride*bounds.Dy()),
		Advance: advance,
	}
}

// setMono sets pixel (x, y) relative to Bounds.Min in a mono glyph.
func (g *Glyph) setMono(x, y int) {
	if x < 0 || y < 0 || x >= g.Bounds.Dx() || y >= g.Bounds.Dy() {
		return
	}
	g.Mask[y*g.Stride+x>>3] |= 0x80 >> (x & 7)
}

// ToMono thresholds a gray glyph at level. Mono glyphs are returned
// unchanged.
func (g Glyph) ToMono(level uint8) Glyph {
	if g.Format == FormatMono {
		return g
	}
	m := newMonoGlyph(g.Rune, g.Bounds, g.Advance)
	for y := 0; y < g.Bounds.Dy(); y++ {
		for x := 0; x < g.Bounds.Dx(); x++ {
			if g.Mask[y*g.Stride+x] >= level {
				m.setMono(x, y)
			}
		}
	}
	return m
}
