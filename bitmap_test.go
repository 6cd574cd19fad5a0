package display

import (
	"errors"
	"image"
	stdcolor "image/color"
	"testing"

	"github.com/gogpu/display/buffer"
	"github.com/gogpu/display/color"
)

func TestImportPixels(t *testing.T) {
	// Two RGB32 rows of two pixels, 4 bytes of padding each. Memory row 0
	// holds red then green, memory row 1 blue then white.
	data := []byte{
		0, 0, 255, 255, 0, 255, 0, 255, 9, 9, 9, 9,
		255, 0, 0, 255, 255, 255, 255, 255, 9, 9, 9, 9,
	}
	tests := []struct {
		name  string
		pitch int
		want  [2][2]color.Color
	}{
		{"top-down", 12, [2][2]color.Color{{red, green}, {blue, color.White}}},
		{"bottom-up", -12, [2][2]color.Color{{blue, color.White}, {red, green}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bmp, err := ImportPixels(data, 2, 2, tt.pitch, color.RGB32, color.RGBA32)
			if err != nil {
				t.Fatal(err)
			}
			if bmp.Space() != color.RGBA32 || bmp.BytesPerRow() != 8 {
				t.Errorf("Space() = %v, BytesPerRow() = %d", bmp.Space(), bmp.BytesPerRow())
			}
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					if got := bmp.ColorAt(x, y); !got.Equal(tt.want[y][x]) {
						t.Errorf("ColorAt(%d, %d) = %v, want %v", x, y, got, tt.want[y][x])
					}
				}
			}
		})
	}
}

func TestImportPixelsShortData(t *testing.T) {
	_, err := ImportPixels(make([]byte, 10), 2, 2, 8, color.RGB32, color.RGBA32)
	if !errors.Is(err, buffer.ErrDataTooSmall) {
		t.Errorf("ImportPixels() = %v, want ErrDataTooSmall", err)
	}
}

func TestBitmapFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	img.SetNRGBA(5, 5, stdcolor.NRGBA{R: 255, A: 255})
	img.SetNRGBA(7, 6, stdcolor.NRGBA{B: 255, A: 255})

	bmp, err := BitmapFromImage(img, color.RGB32)
	if err != nil {
		t.Fatal(err)
	}
	if bmp.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("Bounds() = %v", bmp.Bounds())
	}
	if !bmp.ColorAt(0, 0).Equal(red) || !bmp.ColorAt(2, 1).Equal(blue) {
		t.Errorf("corners = %v, %v", bmp.ColorAt(0, 0), bmp.ColorAt(2, 1))
	}
	r, _, _, a := bmp.At(0, 0).RGBA()
	if r != 0xffff || a != 0xffff {
		t.Errorf("At(0, 0).RGBA() = %#x, %#x", r, a)
	}
}

func TestBitmapCloneIsIndependent(t *testing.T) {
	bmp, err := NewBitmap(4, 4, color.RGB16)
	if err != nil {
		t.Fatal(err)
	}
	bmp.Fill(color.White)
	c := bmp.Clone()
	c.SetColorAt(1, 1, color.Black)
	if bmp.ColorAt(1, 1).Equal(color.Black) {
		t.Error("Clone shares pixels with the original")
	}
	if !c.ColorAt(1, 1).Equal(color.Black) {
		t.Error("SetColorAt on clone lost")
	}
}

func TestNewBitmapInvalid(t *testing.T) {
	if _, err := NewBitmap(0, 4, color.RGB32); err == nil {
		t.Error("NewBitmap(0, 4) succeeded")
	}
}

func TestCursorMasks(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 9, 1))
	img.SetNRGBA(0, 0, stdcolor.NRGBA{A: 255})                         // black
	img.SetNRGBA(1, 0, stdcolor.NRGBA{R: 255, G: 255, B: 255, A: 255}) // white
	img.SetNRGBA(8, 0, stdcolor.NRGBA{R: 255, G: 255, B: 255, A: 200}) // white, opaque enough
	cur, err := NewCursor(img, image.Point{})
	if err != nil {
		t.Fatal(err)
	}
	and, xor := cur.Masks()
	if len(and) != 2 || len(xor) != 2 {
		t.Fatalf("mask lengths %d, %d; want 2", len(and), len(xor))
	}
	if and[0] != 0x3f || and[1] != 0x00 {
		t.Errorf("and = %#x %#x", and[0], and[1])
	}
	if xor[0] != 0x40 || xor[1] != 0x80 {
		t.Errorf("xor = %#x %#x", xor[0], xor[1])
	}
}
