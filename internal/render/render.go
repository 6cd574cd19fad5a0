// Package render provides pixel renderer strategies: the per-color-space
// primitives every drawing operation is built from.
//
// A Renderer is chosen once per primitive with For. Its methods never check
// bounds; callers clip coordinates to the buffer first.
package render

import (
	"github.com/gogpu/display/buffer"
	"github.com/gogpu/display/color"
)

// Renderer reads and writes pixels of one color space.
type Renderer interface {
	// Space returns the color space this renderer writes.
	Space() color.Space

	// GetPixel decodes the pixel at (x, y).
	GetPixel(b *buffer.Buffer, x, y int) color.Color

	// PutPixel writes c at (x, y).
	PutPixel(b *buffer.Buffer, x, y int, c color.Color)

	// PutHorizontalRun writes length pixels of c starting at (x, y).
	PutHorizontalRun(b *buffer.Buffer, x, y, length int, c color.Color)

	// PutVerticalRun writes length pixels of c downward from (x, y).
	PutVerticalRun(b *buffer.Buffer, x, y, length int, c color.Color)

	// PutPatternRun writes length pixels starting at (x, y), choosing high
	// or low per pixel from p at absolute buffer coordinates.
	PutPatternRun(b *buffer.Buffer, x, y, length int, p color.Pattern, high, low color.Color)

	// InvertRun inverts the color channels of length pixels starting at
	// (x, y). Alpha is preserved.
	InvertRun(b *buffer.Buffer, x, y, length int)
}

// Pixel is a color encoded in a renderer's native byte layout.
type Pixel struct {
	b [4]byte
	n int
}

// Bytes returns the encoded bytes.
func (p Pixel) Bytes() []byte { return p.b[:p.n] }

// packed renders byte-aligned spaces. Each color space gets its own
// instance carrying its pixel size and invert mask.
type packed struct {
	space  color.Space
	bpp    int
	invert [4]byte
}

var renderers = map[color.Space]*packed{
	color.CMAP8:     {space: color.CMAP8, bpp: 1},
	color.Gray8:     {space: color.Gray8, bpp: 1, invert: [4]byte{0xFF}},
	color.RGB15:     {space: color.RGB15, bpp: 2, invert: [4]byte{0xFF, 0x7F}},
	color.RGBA15:    {space: color.RGBA15, bpp: 2, invert: [4]byte{0xFF, 0x7F}},
	color.RGB15Big:  {space: color.RGB15Big, bpp: 2, invert: [4]byte{0x7F, 0xFF}},
	color.RGBA15Big: {space: color.RGBA15Big, bpp: 2, invert: [4]byte{0x7F, 0xFF}},
	color.RGB16:     {space: color.RGB16, bpp: 2, invert: [4]byte{0xFF, 0xFF}},
	color.RGB16Big:  {space: color.RGB16Big, bpp: 2, invert: [4]byte{0xFF, 0xFF}},
	color.RGB24:     {space: color.RGB24, bpp: 3, invert: [4]byte{0xFF, 0xFF, 0xFF}},
	color.RGB24Big:  {space: color.RGB24Big, bpp: 3, invert: [4]byte{0xFF, 0xFF, 0xFF}},
	color.RGB32:     {space: color.RGB32, bpp: 4, invert: [4]byte{0xFF, 0xFF, 0xFF, 0x00}},
	color.RGBA32:    {space: color.RGBA32, bpp: 4, invert: [4]byte{0xFF, 0xFF, 0xFF, 0x00}},
	color.RGB32Big:  {space: color.RGB32Big, bpp: 4, invert: [4]byte{0x00, 0xFF, 0xFF, 0xFF}},
	color.RGBA32Big: {space: color.RGBA32Big, bpp: 4, invert: [4]byte{0x00, 0xFF, 0xFF, 0xFF}},
}

// For returns the renderer for space, or false if space cannot be
// rasterized.
func For(space color.Space) (Renderer, bool) {
	r, ok := renderers[space]
	if !ok {
		return nil, false
	}
	return r, true
}

// Encode returns c in the native layout of space. Spaces without a
// renderer encode as an empty Pixel.
func Encode(space color.Space, c color.Color) Pixel {
	r, ok := renderers[space]
	if !ok {
		return Pixel{}
	}
	return r.encode(c)
}

func (r *packed) Space() color.Space { return r.space }

func (r *packed) encode(c color.Color) Pixel {
	p := Pixel{n: r.bpp}
	color.SetPixelAt(r.space, p.b[:], 0, c)
	return p
}

func (r *packed) span(b *buffer.Buffer, x, y, length int) []byte {
	off := b.RowOffset(y) + x*r.bpp
	return b.Data()[off : off+length*r.bpp]
}

func (r *packed) GetPixel(b *buffer.Buffer, x, y int) color.Color {
	return color.PixelAt(r.space, r.span(b, x, y, 1), 0)
}

func (r *packed) PutPixel(b *buffer.Buffer, x, y int, c color.Color) {
	p := r.encode(c)
	copy(r.span(b, x, y, 1), p.Bytes())
}

func (r *packed) PutHorizontalRun(b *buffer.Buffer, x, y, length int, c color.Color) {
	if length <= 0 {
		return
	}
	fill(r.span(b, x, y, length), r.encode(c).Bytes())
}

func (r *packed) PutVerticalRun(b *buffer.Buffer, x, y, length int, c color.Color) {
	px := r.encode(c).Bytes()
	for i := 0; i < length; i++ {
		copy(r.span(b, x, y+i, 1), px)
	}
}

func (r *packed) PutPatternRun(b *buffer.Buffer, x, y, length int, p color.Pattern, high, low color.Color) {
	if length <= 0 {
		return
	}
	switch p {
	case color.PatternSolidHigh:
		r.PutHorizontalRun(b, x, y, length, high)
		return
	case color.PatternSolidLow:
		r.PutHorizontalRun(b, x, y, length, low)
		return
	}
	hi := r.encode(high).Bytes()
	lo := r.encode(low).Bytes()
	row := p.Row(y)
	dst := r.span(b, x, y, length)
	for i := 0; i < length; i++ {
		src := lo
		if row&(0x80>>uint((x+i)&7)) != 0 {
			src = hi
		}
		copy(dst[i*r.bpp:], src)
	}
}

func (r *packed) InvertRun(b *buffer.Buffer, x, y, length int) {
	if length <= 0 {
		return
	}
	dst := r.span(b, x, y, length)
	if r.space == color.CMAP8 {
		for i, v := range dst {
			dst[i] = color.InvertIndex(v)
		}
		return
	}
	mask := r.invert[:r.bpp]
	for i := range dst {
		dst[i] ^= mask[i%r.bpp]
	}
}

// fill replicates px across dst by doubling copies.
func fill(dst, px []byte) {
	if len(dst) == 0 {
		return
	}
	n := copy(dst, px)
	for n < len(dst) {
		n += copy(dst[n:], dst[:n])
	}
}
