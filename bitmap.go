package display

import (
	"fmt"
	"image"
	stdcolor "image/color"

	"github.com/gogpu/display/buffer"
	"github.com/gogpu/display/color"
)

// Bitmap is an off-screen pixel buffer used as a DrawBitmap source, a
// CopyToBitmap target and a cursor image.
//
// Bitmap implements image.Image.
type Bitmap struct {
	buf *buffer.Buffer
}

// NewBitmap allocates a zeroed bitmap.
func NewBitmap(width, height int, space color.Space) (*Bitmap, error) {
	buf, err := buffer.Alloc(width, height, space)
	if err != nil {
		return nil, fmt.Errorf("display: new bitmap: %w", err)
	}
	return &Bitmap{buf: buf}, nil
}

// BitmapFromBuffer wraps an existing buffer without copying.
func BitmapFromBuffer(buf *buffer.Buffer) *Bitmap {
	return &Bitmap{buf: buf}
}

// BitmapFromImage converts img into a new bitmap in space.
func BitmapFromImage(img image.Image, space color.Space) (*Bitmap, error) {
	r := img.Bounds()
	b, err := NewBitmap(r.Dx(), r.Dy(), space)
	if err != nil {
		return nil, err
	}
	for y := 0; y < r.Dy(); y++ {
		row := b.buf.Row(y)
		for x := 0; x < r.Dx(); x++ {
			color.SetPixelAt(space, row, x, color.FromStd(img.At(r.Min.X+x, r.Min.Y+y)))
		}
	}
	return b, nil
}

// ImportPixels decodes width x height pixels stored in from, which may be
// any descriptor including the interchange spaces, into a new bitmap in
// to. bytesPerRow may be negative for bottom-up data.
func ImportPixels(data []byte, width, height, bytesPerRow int, from, to color.Space) (*Bitmap, error) {
	src, err := buffer.New(data, width, height, bytesPerRow, from)
	if err != nil {
		return nil, fmt.Errorf("display: import pixels: %w", err)
	}
	b, err := NewBitmap(width, height, to)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		srow, drow := src.Row(y), b.buf.Row(y)
		for x := 0; x < width; x++ {
			color.SetPixelAt(to, drow, x, color.PixelAt(from, srow, x))
		}
	}
	return b, nil
}

// Width returns the width in pixels.
func (b *Bitmap) Width() int { return b.buf.Width() }

// Height returns the height in pixels.
func (b *Bitmap) Height() int { return b.buf.Height() }

// Bounds returns (0, 0)-(Width, Height).
func (b *Bitmap) Bounds() image.Rectangle { return b.buf.Bounds() }

// Space returns the pixel layout.
func (b *Bitmap) Space() color.Space { return b.buf.Space() }

// BytesPerRow returns the row pitch.
func (b *Bitmap) BytesPerRow() int { return b.buf.BytesPerRow() }

// Bits returns the pixel memory.
func (b *Bitmap) Bits() []byte { return b.buf.Data() }

// Buffer returns the underlying graphics buffer.
func (b *Bitmap) Buffer() *buffer.Buffer { return b.buf }

// ColorModel implements image.Image.
func (b *Bitmap) ColorModel() stdcolor.Model { return stdcolor.NRGBAModel }

// At implements image.Image.
func (b *Bitmap) At(x, y int) stdcolor.Color { return b.buf.At(x, y) }

// ColorAt returns the pixel at (x, y), or the zero Color outside.
func (b *Bitmap) ColorAt(x, y int) color.Color { return b.buf.At(x, y) }

// SetColorAt sets the pixel at (x, y). Points outside are ignored.
func (b *Bitmap) SetColorAt(x, y int, c color.Color) { b.buf.Set(x, y, c) }

// Fill sets every pixel to c.
func (b *Bitmap) Fill(c color.Color) {
	for y := 0; y < b.Height(); y++ {
		row := b.buf.Row(y)
		for x := 0; x < b.Width(); x++ {
			color.SetPixelAt(b.Space(), row, x, c)
		}
	}
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{buf: b.buf.Clone()}
}
