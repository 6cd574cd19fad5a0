package display

import (
	"image"

	"github.com/gogpu/display/color"
)

// Cursor is a cursor image and its hot spot. The hot spot is the image
// pixel placed at the cursor position.
type Cursor struct {
	Image *Bitmap
	Hot   image.Point
}

// NewCursor copies img into an RGBA32 cursor with the given hot spot.
func NewCursor(img image.Image, hot image.Point) (*Cursor, error) {
	bmp, err := BitmapFromImage(img, color.RGBA32)
	if err != nil {
		return nil, err
	}
	return &Cursor{Image: bmp, Hot: hot}, nil
}

var arrowShape = [...]string{
	"B...........",
	"BB..........",
	"BWB.........",
	"BWWB........",
	"BWWWB.......",
	"BWWWWB......",
	"BWWWWWB.....",
	"BWWWWWWB....",
	"BWWWWWWWB...",
	"BWWWWWWWWB..",
	"BWWWWWWWWWB.",
	"BWWWWWWBBBBB",
	"BWWWBWWB....",
	"BWWBBWWB....",
	"BWB..BWWB...",
	"BB...BWWB...",
	"B.....BWWB..",
	"......BBB...",
}

// DefaultCursor returns the standard arrow with its hot spot at the tip.
func DefaultCursor() *Cursor {
	bmp, _ := NewBitmap(len(arrowShape[0]), len(arrowShape), color.RGBA32)
	for y, row := range arrowShape {
		for x, ch := range row {
			switch ch {
			case 'B':
				bmp.SetColorAt(x, y, color.Black)
			case 'W':
				bmp.SetColorAt(x, y, color.White)
			}
		}
	}
	return &Cursor{Image: bmp}
}

// Bounds returns the screen area the cursor covers with its hot spot at
// p.
func (c *Cursor) Bounds(p image.Point) image.Rectangle {
	return c.Image.Bounds().Add(p.Sub(c.Hot))
}

// Masks returns the 1-bit AND and XOR masks of a hardware cursor, rows
// padded to whole bytes, most significant bit first. Pixels with alpha
// below 128 are transparent (AND set); opaque light pixels set XOR.
func (c *Cursor) Masks() (and, xor []byte) {
	w, h := c.Image.Width(), c.Image.Height()
	stride := (w + 7) / 8
	and = make([]byte, stride*h)
	xor = make([]byte, stride*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := c.Image.ColorAt(x, y)
			bit := byte(0x80) >> (x & 7)
			switch {
			case px.A() < 128:
				and[y*stride+x/8] |= bit
			case px.Luma() >= 128:
				xor[y*stride+x/8] |= bit
			}
		}
	}
	return and, xor
}
