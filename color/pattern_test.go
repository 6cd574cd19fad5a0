package color

import "testing"

func TestPatternNamed(t *testing.T) {
	for y := -9; y < 9; y++ {
		for x := -9; x < 9; x++ {
			if !PatternSolidHigh.IsHighColorAt(x, y) {
				t.Fatalf("solid high at (%d,%d) = low", x, y)
			}
			if PatternSolidLow.IsHighColorAt(x, y) {
				t.Fatalf("solid low at (%d,%d) = high", x, y)
			}
			want := (x+y)&1 == 0
			if got := PatternMixedColors.IsHighColorAt(x, y); got != want {
				t.Fatalf("checkerboard at (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestPatternPeriodic(t *testing.T) {
	p := NewPattern([8]uint8{0x81, 0x42, 0x24, 0x18, 0x18, 0x24, 0x42, 0x81})
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := p.IsHighColorAt(x, y)
			for _, d := range []int{-16, -8, 8, 64} {
				if got := p.IsHighColorAt(x+d, y); got != want {
					t.Errorf("(%d,%d) != (%d,%d)", x+d, y, x, y)
				}
				if got := p.IsHighColorAt(x, y+d); got != want {
					t.Errorf("(%d,%d) != (%d,%d)", x, y+d, x, y)
				}
			}
		}
	}
}

func TestPatternBitOrder(t *testing.T) {
	p := NewPattern([8]uint8{0x80, 0, 0, 0, 0, 0, 0, 0x01})
	if !p.IsHighColorAt(0, 0) {
		t.Errorf("(0,0) should be high")
	}
	if p.IsHighColorAt(1, 0) {
		t.Errorf("(1,0) should be low")
	}
	if !p.IsHighColorAt(7, 7) {
		t.Errorf("(7,7) should be high")
	}
	if p.Rows() != [8]uint8{0x80, 0, 0, 0, 0, 0, 0, 0x01} {
		t.Errorf("Rows() = %v", p.Rows())
	}
}

func TestPatternColorAt(t *testing.T) {
	hi, lo := White, Black
	if got := PatternMixedColors.ColorAt(1, 0, hi, lo); !got.Equal(lo) {
		t.Errorf("ColorAt(1,0) = %v, want low", got)
	}
	if got := PatternMixedColors.ColorAt(1, 1, hi, lo); !got.Equal(hi) {
		t.Errorf("ColorAt(1,1) = %v, want high", got)
	}
}
