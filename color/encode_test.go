package color

import (
	"bytes"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestPixelLayouts(t *testing.T) {
	c := RGBA(0x12, 0x34, 0x56, 0x78)
	tests := []struct {
		space Space
		want  []byte
	}{
		{RGB32, []byte{0x56, 0x34, 0x12, 0x78}},
		{RGBA32, []byte{0x56, 0x34, 0x12, 0x78}},
		{RGB32Big, []byte{0x78, 0x12, 0x34, 0x56}},
		{RGB24, []byte{0x56, 0x34, 0x12}},
		{RGB24Big, []byte{0x12, 0x34, 0x56}},
		// 0x12>>3=2, 0x34>>2=13, 0x56>>3=10: 00010 001101 01010
		{RGB16, []byte{0xAA, 0x11}},
		{RGB16Big, []byte{0x11, 0xAA}},
		// 0x34>>3=6: a=0 00010 00110 01010
		{RGBA15, []byte{0xCA, 0x08}},
		{RGB15, []byte{0xCA, 0x88}},
		{RGB15Big, []byte{0x88, 0xCA}},
	}
	for _, tt := range tests {
		t.Run(tt.space.String(), func(t *testing.T) {
			got := make([]byte, tt.space.BytesPerPixel())
			SetPixelAt(tt.space, got, 0, c)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("SetPixelAt() = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestPixelAtRoundTrip(t *testing.T) {
	c := RGB(200, 100, 50)
	for _, s := range []Space{RGB32, RGB32Big, RGBA32, RGBA32Big, RGB24, RGB24Big, CMY24, YCbCr444, HSV24, HSV32} {
		t.Run(s.String(), func(t *testing.T) {
			row := make([]byte, s.RowBytes(4))
			SetPixelAt(s, row, 2, c)
			got := PixelAt(s, row, 2)
			if absDiff(got.R(), c.R()) > 3 || absDiff(got.G(), c.G()) > 3 || absDiff(got.B(), c.B()) > 3 {
				t.Errorf("PixelAt() = %v, want ~%v", got, c)
			}
		})
	}
}

func TestGray1(t *testing.T) {
	row := make([]byte, 2)
	SetPixelAt(Gray1, row, 0, Black)
	SetPixelAt(Gray1, row, 9, Black)
	if row[0] != 0x80 || row[1] != 0x40 {
		t.Fatalf("row = % x", row)
	}
	if !PixelAt(Gray1, row, 9).Equal(Black) || !PixelAt(Gray1, row, 8).Equal(White) {
		t.Errorf("PixelAt decodes wrong bits")
	}
}

func TestYCbCr422SharesChroma(t *testing.T) {
	row := make([]byte, YCbCr422.RowBytes(2))
	SetPixelAt(YCbCr422, row, 0, White)
	SetPixelAt(YCbCr422, row, 1, White)
	if got := PixelAt(YCbCr422, row, 1); !got.Equal(White) {
		t.Errorf("PixelAt(1) = %v, want white", got)
	}
}

func TestSpaceInfo(t *testing.T) {
	tests := []struct {
		space  Space
		bpp    int
		depth  Depth
		raster bool
		big    bool
	}{
		{CMAP8, 8, Depth8, true, false},
		{RGB15, 16, Depth15, true, false},
		{RGBA15Big, 16, Depth15, true, true},
		{RGB16Big, 16, Depth16, true, true},
		{RGB24, 24, Depth24, true, false},
		{RGB32, 32, Depth32, true, false},
		{YCbCr422, 16, DepthNone, false, false},
		{Gray1, 1, Depth1, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.space.String(), func(t *testing.T) {
			info := tt.space.Info()
			if info.BitsPerPixel != tt.bpp || info.Depth != tt.depth ||
				info.Rasterizable != tt.raster || info.BigEndian != tt.big {
				t.Errorf("Info() = %+v", info)
			}
		})
	}
	if Space(999).IsValid() || Space(999).String() != "unknown" {
		t.Errorf("out of range space should be invalid")
	}
	if Gray1.RowBytes(9) != 2 {
		t.Errorf("Gray1.RowBytes(9) = %d, want 2", Gray1.RowBytes(9))
	}
	if RGB32.TextureFormat() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("RGB32.TextureFormat() = %v", RGB32.TextureFormat())
	}
	if CMAP8.TextureFormat() != gputypes.TextureFormatUndefined {
		t.Errorf("CMAP8.TextureFormat() = %v", CMAP8.TextureFormat())
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestNativeMatchesLayout(t *testing.T) {
	c := RGBA(0x12, 0x34, 0x56, 0xFF)
	for _, s := range []Space{CMAP8, Gray8, RGB15, RGB15Big, RGB16, RGB16Big, RGB24, RGB24Big, RGB32, RGB32Big} {
		t.Run(s.String(), func(t *testing.T) {
			want := make([]byte, s.BytesPerPixel())
			SetPixelAt(s, want, 0, c)

			got := make([]byte, s.BytesPerPixel())
			PutNative(s, got, Native(s, c))
			if !bytes.Equal(got, want) {
				t.Errorf("PutNative(Native) = % x, want % x", got, want)
			}
		})
	}
	if v := Native(RGB16, c); v != 0x11AA {
		t.Errorf("Native(RGB16) = %#x", v)
	}
	if v := Native(RGB32, c); v != 0xFF123456 {
		t.Errorf("Native(RGB32) = %#x", v)
	}
}

func TestParseSpace(t *testing.T) {
	tests := []struct {
		in   string
		want Space
		ok   bool
	}{
		{"RGB32", RGB32, true},
		{"cmap8", CMAP8, true},
		{"rgba32_big", RGBA32Big, true},
		{"none", NoSpace, false},
		{"RGB48", NoSpace, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSpace(tt.in)
			if (err == nil) != tt.ok || got != tt.want {
				t.Errorf("ParseSpace(%q) = %v, %v", tt.in, got, err)
			}
		})
	}
}
