package color

import (
	stdcolor "image/color"
	"math"
	"testing"
)

var _ stdcolor.Color = Color{}

func TestEqualIgnoresCache(t *testing.T) {
	a := RGB(10, 20, 30)
	b := RGB(10, 20, 30)
	_ = a.Color16()
	_ = a.Color8()
	if !a.Equal(b) {
		t.Errorf("Equal() = false after caching encodings")
	}
	if a.Equal(RGBA(10, 20, 30, 0)) {
		t.Errorf("Equal() = true for different alpha")
	}
}

func TestSetRGBAInvalidatesCache(t *testing.T) {
	c := RGB(255, 0, 0)
	if got := c.Color16(); got != 0xF800 {
		t.Fatalf("Color16() = %#04x, want 0xf800", got)
	}
	c.SetRGBA(0, 0, 255, 255)
	if got := c.Color16(); got != 0x001F {
		t.Errorf("Color16() after SetRGBA = %#04x, want 0x001f", got)
	}
}

func TestSetAlphaDropsColor15(t *testing.T) {
	c := RGBA(255, 255, 255, 255)
	if got := c.Color15(); got != 0xFFFF {
		t.Fatalf("Color15() = %#04x, want 0xffff", got)
	}
	c.SetAlpha(0)
	if got := c.Color15(); got != 0x7FFF {
		t.Errorf("Color15() after SetAlpha(0) = %#04x, want 0x7fff", got)
	}
}

func TestEncodings(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		c15  uint16
		c16  uint16
		c32  uint32
	}{
		{"black", Black, 0x8000, 0x0000, 0xFF000000},
		{"white", White, 0xFFFF, 0xFFFF, 0xFFFFFFFF},
		{"red", RGB(255, 0, 0), 0xFC00, 0xF800, 0xFFFF0000},
		{"green", RGB(0, 255, 0), 0x83E0, 0x07E0, 0xFF00FF00},
		{"blue", RGB(0, 0, 255), 0x801F, 0x001F, 0xFF0000FF},
		{"transparent", Transparent, 0x0000, 0x0000, 0x00000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.c
			if got := c.Color15(); got != tt.c15 {
				t.Errorf("Color15() = %#04x, want %#04x", got, tt.c15)
			}
			if got := c.Color16(); got != tt.c16 {
				t.Errorf("Color16() = %#04x, want %#04x", got, tt.c16)
			}
			if got := c.Color32(); got != tt.c32 {
				t.Errorf("Color32() = %#08x, want %#08x", got, tt.c32)
			}
		})
	}
}

func TestDecodeTruncates(t *testing.T) {
	for _, v := range []uint8{0, 1, 7, 8, 100, 127, 128, 200, 254, 255} {
		c := RGB(v, v, v)
		got := Decode(c.ToDepth(Depth16), Depth16)
		want := RGB(v&^7, v&^3, v&^7)
		if !got.Equal(want) {
			t.Errorf("16-bit round trip of %d = %v, want %v", v, got, want)
		}
		got = Decode(c.ToDepth(Depth15), Depth15)
		want = RGB(v&^7, v&^7, v&^7)
		if !got.Equal(want) {
			t.Errorf("15-bit round trip of %d = %v, want %v", v, got, want)
		}
		got = Decode(c.ToDepth(Depth32), Depth32)
		if !got.Equal(c) {
			t.Errorf("32-bit round trip of %d = %v, want %v", v, got, c)
		}
	}
}

func TestPaletteCubeRoundTrip(t *testing.T) {
	pal := Palette()
	for i := 0; i < 216; i++ {
		c := pal[i]
		c.InvalidateCache()
		if got := c.Color8(); got != uint8(i) {
			t.Errorf("Color8() of cube entry %d (%v) = %d", i, pal[i], got)
		}
	}
}

func TestFromIndexKeepsIndex(t *testing.T) {
	for i := 0; i < PaletteSize; i++ {
		c := FromIndex(uint8(i))
		if got := c.Color8(); got != uint8(i) {
			t.Errorf("FromIndex(%d).Color8() = %d", i, got)
		}
	}
}

func TestMakeBlend(t *testing.T) {
	a := RGBA(0, 0, 0, 0)
	b := RGBA(200, 100, 50, 255)
	tests := []struct {
		name string
		t    float64
		want Color
	}{
		{"zero", 0, a},
		{"one", 1, b},
		{"below range", -3, a},
		{"above range", 7, b},
		{"half", 0.5, RGBA(100, 50, 25, 128)},
		{"nan", math.NaN(), a},
		{"infinity", math.Inf(1), b},
		{"negative infinity", math.Inf(-1), a},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.MakeBlend(b, tt.t); !got.Equal(tt.want) {
				t.Errorf("MakeBlend(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestBlendCoverage(t *testing.T) {
	lo, hi := Black, White
	if got := lo.BlendCoverage(hi, 0); !got.Equal(lo) {
		t.Errorf("coverage 0 = %v", got)
	}
	if got := lo.BlendCoverage(hi, 255); !got.Equal(hi) {
		t.Errorf("coverage 255 = %v", got)
	}
	if got := lo.BlendCoverage(hi, 128); got.R() != 128 {
		t.Errorf("coverage 128 red = %d, want 128", got.R())
	}
}

func TestFromUint32(t *testing.T) {
	c := FromUint32(0x80112233)
	if r, g, b, a := c.Components(); r != 0x11 || g != 0x22 || b != 0x33 || a != 0x80 {
		t.Errorf("Components() = %d %d %d %d", r, g, b, a)
	}
	if c.Uint32() != 0x80112233 {
		t.Errorf("Uint32() = %#08x", c.Uint32())
	}
}

func TestHSV(t *testing.T) {
	h, s, v := RGB(255, 0, 0).HSV()
	if h != 0 || s != 1 || v != 1 {
		t.Errorf("HSV(red) = %v %v %v", h, s, v)
	}
	if got := FromHSV(120, 1, 1); !got.Equal(RGB(0, 255, 0)) {
		t.Errorf("FromHSV(120,1,1) = %v", got)
	}
	if got := FromHSV(-240, 1, 1); !got.Equal(RGB(0, 255, 0)) {
		t.Errorf("FromHSV(-240,1,1) = %v", got)
	}
}

func TestFromStd(t *testing.T) {
	got := FromStd(stdcolor.RGBA{R: 128, G: 0, B: 0, A: 128})
	if !got.Equal(RGBA(255, 0, 0, 128)) {
		t.Errorf("FromStd(premultiplied) = %v", got)
	}
}
