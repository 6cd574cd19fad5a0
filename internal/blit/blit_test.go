package blit

import (
	"bytes"
	"testing"

	"github.com/gogpu/display/color"
)

func row(s color.Space, cs ...color.Color) []byte {
	b := make([]byte, s.RowBytes(len(cs)))
	for i, c := range cs {
		color.SetPixelAt(s, b, i, c)
	}
	return b
}

func TestSelectMatrix(t *testing.T) {
	spaces := []color.Space{color.CMAP8, color.RGB15, color.RGB16, color.RGB32, color.RGBA32Big}
	for _, src := range spaces {
		for _, dst := range spaces {
			var b Blitter
			if !b.Select(src, dst) {
				t.Errorf("Select(%v, %v) = false", src, dst)
			}
		}
	}
	for _, pair := range [][2]color.Space{
		{color.RGB24, color.RGB32},
		{color.RGB32, color.RGB24},
		{color.YCbCr422, color.RGB32},
		{color.Gray1, color.CMAP8},
	} {
		var b Blitter
		if b.Select(pair[0], pair[1]) {
			t.Errorf("Select(%v, %v) = true", pair[0], pair[1])
		}
		dst := []byte{1, 2, 3, 4}
		b.Draw(dst, []byte{9, 9, 9, 9}, 1, 0, One)
		if !bytes.Equal(dst, []byte{1, 2, 3, 4}) {
			t.Errorf("no-op blit wrote %v", dst)
		}
	}
}

func TestSameSpaceCopyIsExact(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	for _, s := range []color.Space{color.CMAP8, color.RGB16, color.RGB32} {
		var b Blitter
		b.Select(s, s)
		n := len(src) / s.BytesPerPixel()
		dst := make([]byte, len(src))
		b.Draw(dst, src, n, 0, One)
		if !bytes.Equal(dst, src) {
			t.Errorf("%v: copy = %v", s, dst)
		}
	}
}

func TestConversions(t *testing.T) {
	red := color.RGB(255, 0, 0)
	tests := []struct {
		src, dst color.Space
		want     color.Color
	}{
		{color.RGB32, color.RGB16, color.RGB(248, 0, 0)},
		{color.RGB32, color.RGB15Big, color.RGB(248, 0, 0)},
		{color.RGB16, color.RGB32, color.RGB(248, 0, 0)},
		{color.RGB32, color.CMAP8, red},
		{color.CMAP8, color.RGB32Big, red},
		{color.RGB15, color.RGBA32, color.RGB(248, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.src.String()+"->"+tt.dst.String(), func(t *testing.T) {
			var b Blitter
			b.Select(tt.src, tt.dst)
			dst := make([]byte, tt.dst.RowBytes(2))
			b.Draw(dst, row(tt.src, red, red), 2, 0, One)
			for x := 0; x < 2; x++ {
				if got := color.PixelAt(tt.dst, dst, x); !got.Equal(tt.want) {
					t.Errorf("pixel %d = %v, want %v", x, got, tt.want)
				}
			}
		})
	}
}

func TestScaledIndices(t *testing.T) {
	for _, w := range []int{3, 10, 64, 333} {
		for _, scale := range []float64{0.25, 0.5, 0.7, 1} {
			count := int(float64(w) * scale)
			if count == 0 {
				continue
			}
			f := ScaleFactor(w, count)
			prev := -1
			for i := 0; i < count; i++ {
				si := SourceIndex(i, 0, f)
				if si <= prev || si > w-1 {
					t.Fatalf("w=%d scale=%v: index %d -> %d after %d", w, scale, i, si, prev)
				}
				prev = si
			}
		}
	}
}

func TestScaledDrawSamples(t *testing.T) {
	src := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	var b Blitter
	b.Select(color.CMAP8, color.CMAP8)

	dst := make([]byte, 4)
	b.Draw(dst, src, 4, 0, ScaleFactor(8, 4))
	if !bytes.Equal(dst, []byte{0, 2, 4, 6}) {
		t.Errorf("downscale = %v", dst)
	}

	dst = make([]byte, 16)
	b.Draw(dst, src, 16, 0, ScaleFactor(8, 16))
	if dst[0] != 0 || dst[1] != 0 || dst[15] != 7 {
		t.Errorf("upscale = %v", dst)
	}

	// Start position past the end clamps to the last pixel.
	dst = make([]byte, 2)
	b.Draw(dst, src, 2, 100*One, One)
	if dst[0] != 7 || dst[1] != 7 {
		t.Errorf("clamped = %v", dst)
	}
}
