package demo

import (
	"bytes"
	"testing"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/color"
)

func open(t *testing.T, cfg Config) *Display {
	t.Helper()
	d, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestDrawSameOnEveryDriver(t *testing.T) {
	tests := []struct {
		name  string
		space color.Space
	}{
		{"cmap8", color.CMAP8},
		{"rgb16", color.RGB16},
		{"rgb32", color.RGB32},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sw := open(t, Config{Width: 320, Height: 240, Space: tt.space, Software: true})
			hw := open(t, Config{Width: 320, Height: 240, Space: tt.space})

			var want, got bytes.Buffer
			for _, d := range []*Display{sw, hw} {
				_ = d.HideCursor()
				if err := Draw(d, 3); err != nil {
					t.Fatalf("Draw() = %v", err)
				}
			}
			if err := sw.DumpPNG(&want); err != nil {
				t.Fatal(err)
			}
			if err := hw.DumpPNG(&got); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(want.Bytes(), got.Bytes()) {
				t.Error("software and accelerated scenes differ")
			}
			if hw.Card.Calls(accelerant.FillRectangle) == 0 {
				t.Error("accelerated scene never used the fill engine")
			}
		})
	}
}

func TestDrawAnimates(t *testing.T) {
	d := open(t, Config{Width: 200, Height: 150, Space: color.RGB32, Software: true})
	var a, b bytes.Buffer
	_ = Draw(d, 0)
	_ = d.DumpPNG(&a)
	_ = Draw(d, 10)
	_ = d.DumpPNG(&b)
	if bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("frames 0 and 10 are identical")
	}
	if len(d.TakeDamage()) == 0 {
		t.Error("no damage after drawing")
	}
}

func TestOpenRejectsBadSize(t *testing.T) {
	if _, err := Open(Config{Width: 0, Height: 10, Space: color.RGB32}); err == nil {
		t.Error("Open(0x10) succeeded")
	}
}

func TestSwitchToExtraMode(t *testing.T) {
	next := accelerant.NewMode(200, 150, color.RGBA32, 60)
	d := open(t, Config{Width: 320, Height: 240, Space: color.CMAP8, Extra: []accelerant.DisplayMode{next}})
	if err := Draw(d, 0); err != nil {
		t.Fatal(err)
	}
	if err := d.SetMode(next); err != nil {
		t.Fatalf("SetMode() = %v", err)
	}
	if err := Draw(d, 1); err != nil {
		t.Fatal(err)
	}
	if got := d.Card.Mode(); !got.Matches(next) {
		t.Errorf("card mode = %v", got)
	}
}
