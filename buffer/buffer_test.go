package buffer

import (
	"errors"
	"testing"

	"github.com/gogpu/display/color"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		data    int
		width   int
		height  int
		pitch   int
		space   color.Space
		wantErr error
	}{
		{"packed rgb32", 40, 2, 5, 8, color.RGB32, nil},
		{"padded rgb16", 64, 3, 4, 16, color.RGB16, nil},
		{"bottom-up", 40, 2, 5, -8, color.RGB32, nil},
		{"last row unpadded", 44, 3, 3, 16, color.RGB32, nil},
		{"zero width", 40, 0, 5, 8, color.RGB32, ErrInvalidDimensions},
		{"negative height", 40, 2, -1, 8, color.RGB32, ErrInvalidDimensions},
		{"no space", 40, 2, 5, 8, color.NoSpace, ErrInvalidSpace},
		{"stride too small", 40, 3, 5, 8, color.RGB32, ErrInvalidStride},
		{"negative stride too small", 40, 3, 5, -8, color.RGB32, ErrInvalidStride},
		{"data too small", 39, 2, 5, 8, color.RGB32, ErrDataTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(make([]byte, tt.data), tt.width, tt.height, tt.pitch, tt.space)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if b.Width() != tt.width || b.Height() != tt.height || b.BytesPerRow() != tt.pitch {
				t.Errorf("geometry = %dx%d/%d", b.Width(), b.Height(), b.BytesPerRow())
			}
		})
	}
}

func TestRowsWithinRegion(t *testing.T) {
	for _, pitch := range []int{12, -12, 16, -16} {
		abs := pitch
		if abs < 0 {
			abs = -abs
		}
		data := make([]byte, abs*7)
		b, err := New(data, 3, 7, pitch, color.RGB32)
		if err != nil {
			t.Fatalf("pitch %d: %v", pitch, err)
		}
		for y := 0; y < b.Height(); y++ {
			off := b.RowOffset(y)
			if off < 0 || off+b.RowBytes() > len(data) {
				t.Errorf("pitch %d: row %d at %d outside [0,%d)", pitch, y, off, len(data))
			}
		}
	}
}

func TestBottomUpOrder(t *testing.T) {
	data := make([]byte, 3*4)
	b, err := New(data, 1, 3, -4, color.RGB32)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(0, 0, color.White)
	if data[8] != 0xFF || data[0] != 0 {
		t.Errorf("row 0 not stored last: % x", data)
	}
	if b.RowOffset(1) != 4 || b.RowOffset(2) != 0 {
		t.Errorf("offsets = %d %d", b.RowOffset(1), b.RowOffset(2))
	}
}

func TestResetRebuildsRows(t *testing.T) {
	b, err := Alloc(4, 4, color.RGB32)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Reset(make([]byte, 2*10*8), 10, 8, 20, color.RGB16); err != nil {
		t.Fatal(err)
	}
	if b.RowOffset(7) != 140 || b.Space() != color.RGB16 {
		t.Errorf("row 7 at %d, space %v", b.RowOffset(7), b.Space())
	}
	if err := b.Reset(nil, 10, 8, 20, color.RGB16); !errors.Is(err, ErrDataTooSmall) {
		t.Fatalf("Reset(nil) = %v", err)
	}
	if b.Width() != 10 {
		t.Errorf("failed Reset modified buffer")
	}
}

func TestSetAtClone(t *testing.T) {
	b, err := Alloc(3, 2, color.RGB16)
	if err != nil {
		t.Fatal(err)
	}
	b.Set(2, 1, color.RGB(255, 0, 0))
	b.Set(5, 5, color.White)
	if got := b.At(2, 1); !got.Equal(color.RGB(248, 0, 0)) {
		t.Errorf("At(2,1) = %v", got)
	}
	c := b.Clone()
	b.Clear()
	if got := c.At(2, 1); !got.Equal(color.RGB(248, 0, 0)) {
		t.Errorf("clone At(2,1) = %v", got)
	}
	if got := b.At(2, 1); !got.Equal(color.Black) {
		t.Errorf("cleared At(2,1) = %v", got)
	}
	if img := c.ToImage(); img.NRGBAAt(2, 1).R != 248 {
		t.Errorf("ToImage red = %d", img.NRGBAAt(2, 1).R)
	}
}
