package render

import (
	"bytes"
	"testing"

	"github.com/gogpu/display/buffer"
	"github.com/gogpu/display/color"
)

var rasterSpaces = []color.Space{
	color.CMAP8, color.Gray8,
	color.RGB15, color.RGB15Big, color.RGBA15, color.RGBA15Big,
	color.RGB16, color.RGB16Big,
	color.RGB24, color.RGB24Big,
	color.RGB32, color.RGB32Big, color.RGBA32, color.RGBA32Big,
}

func newBuf(t *testing.T, w, h int, s color.Space) *buffer.Buffer {
	t.Helper()
	b, err := buffer.Alloc(w, h, s)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	return b
}

func TestForUnsupported(t *testing.T) {
	for _, s := range []color.Space{color.NoSpace, color.Gray1, color.YCbCr422, color.CMYK32} {
		if _, ok := For(s); ok {
			t.Errorf("For(%v) should fail", s)
		}
	}
}

func TestRunsMatchPixels(t *testing.T) {
	c := color.RGB(255, 255, 255)
	for _, s := range rasterSpaces {
		t.Run(s.String(), func(t *testing.T) {
			r, ok := For(s)
			if !ok {
				t.Fatalf("For(%v) failed", s)
			}
			a := newBuf(t, 8, 8, s)
			b := newBuf(t, 8, 8, s)
			r.PutHorizontalRun(a, 1, 2, 5, c)
			r.PutVerticalRun(a, 7, 0, 8, c)
			for x := 1; x < 6; x++ {
				r.PutPixel(b, x, 2, c)
			}
			for y := 0; y < 8; y++ {
				r.PutPixel(b, 7, y, c)
			}
			if !bytes.Equal(a.Data(), b.Data()) {
				t.Errorf("runs differ from single pixel writes")
			}
			if got := r.GetPixel(a, 3, 2); got.R() < 248 || got.G() < 248 || got.B() < 248 {
				t.Errorf("GetPixel = %v, want white", got)
			}
			if got := r.GetPixel(a, 0, 2); got.R() >= 248 {
				t.Errorf("GetPixel outside run = %v", got)
			}
		})
	}
}

func TestPatternRunSolidSharesPath(t *testing.T) {
	hi, lo := color.RGB(0, 0, 255), color.RGB(255, 0, 0)
	for _, s := range rasterSpaces {
		r, _ := For(s)
		a := newBuf(t, 16, 1, s)
		b := newBuf(t, 16, 1, s)
		r.PutPatternRun(a, 3, 0, 10, color.PatternSolidHigh, hi, lo)
		r.PutHorizontalRun(b, 3, 0, 10, hi)
		if !bytes.Equal(a.Data(), b.Data()) {
			t.Errorf("%v: solid pattern run differs from solid run", s)
		}
	}
}

func TestPatternRunCheckerboard(t *testing.T) {
	r, _ := For(color.RGB32)
	b := newBuf(t, 10, 2, color.RGB32)
	for y := 0; y < 2; y++ {
		r.PutPatternRun(b, 0, y, 10, color.PatternMixedColors, color.White, color.Black)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 10; x++ {
			want := color.Black
			if (x+y)%2 == 0 {
				want = color.White
			}
			if got := r.GetPixel(b, x, y); !got.Equal(want) {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestInvertRunInvolution(t *testing.T) {
	for _, s := range rasterSpaces {
		t.Run(s.String(), func(t *testing.T) {
			r, _ := For(s)
			b := newBuf(t, 6, 1, s)
			for x := 0; x < 6; x++ {
				r.PutPixel(b, x, 0, color.RGBA(uint8(x*40), 90, 200, 255))
			}
			orig := append([]byte(nil), b.Data()...)
			r.InvertRun(b, 1, 0, 4)
			if bytes.Equal(orig, b.Data()) {
				t.Fatalf("InvertRun changed nothing")
			}
			r.InvertRun(b, 1, 0, 4)
			if !bytes.Equal(orig, b.Data()) {
				t.Errorf("double invert = % x, want % x", b.Data(), orig)
			}
		})
	}
}

func TestInvertKeepsAlpha(t *testing.T) {
	for _, s := range []color.Space{color.RGBA32, color.RGBA32Big, color.RGBA15} {
		r, _ := For(s)
		b := newBuf(t, 1, 1, s)
		r.PutPixel(b, 0, 0, color.RGBA(0, 255, 0, 255))
		r.InvertRun(b, 0, 0, 1)
		got := r.GetPixel(b, 0, 0)
		if got.A() != 255 {
			t.Errorf("%v: alpha = %d after invert", s, got.A())
		}
		if got.G() != 0 || got.R() < 248 || got.B() < 248 {
			t.Errorf("%v: inverted = %v", s, got)
		}
	}
}

func TestEncode(t *testing.T) {
	p := Encode(color.RGB16, color.RGB(255, 0, 0))
	if !bytes.Equal(p.Bytes(), []byte{0x00, 0xF8}) {
		t.Errorf("Encode(RGB16, red) = % x", p.Bytes())
	}
	if n := len(Encode(color.CMYK32, color.White).Bytes()); n != 0 {
		t.Errorf("Encode(CMYK32) length = %d", n)
	}
}
