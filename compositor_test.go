package display

import (
	"bytes"
	"image"
	stdcolor "image/color"
	"testing"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/accelerant/virtual"
	"github.com/gogpu/display/color"
)

var background = color.RGB(20, 160, 60)

func newComposited(t *testing.T, opts ...CompositorOption) (*Compositor, *SoftwareDriver) {
	t.Helper()
	drv := newSoftware(t, 64, 64, color.RGB32)
	if err := drv.FillRect(drv.Bounds(), solid(background)); err != nil {
		t.Fatal(err)
	}
	comp := NewCompositor(drv, opts...)
	if err := comp.Initialize(); err != nil {
		t.Fatalf("Initialize() = %v", err)
	}
	return comp, drv
}

func frame(drv *SoftwareDriver) []byte {
	drv.mu.Lock()
	defer drv.mu.Unlock()
	return bytes.Clone(drv.ras.buf.Data())
}

func TestCompositorDrawsCursor(t *testing.T) {
	comp, _ := newComposited(t)
	if !pixel(t, comp, 0, 0).Equal(color.Black) {
		t.Error("cursor not drawn at (0, 0) on Initialize")
	}
	if err := comp.MoveCursorTo(image.Pt(10, 10)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		x, y int
		want color.Color
	}{
		{"old position restored", 0, 0, background},
		{"tip", 10, 10, color.Black},
		{"outline", 11, 11, color.Black},
		{"fill", 11, 12, color.White},
		{"transparent", 21, 10, background},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pixel(t, comp, tt.x, tt.y); !got.Equal(tt.want) {
				t.Errorf("pixel(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
	if got := comp.Footprint(); got != image.Rect(10, 10, 22, 28) {
		t.Errorf("Footprint() = %v", got)
	}
}

func TestCompositorHideShowRestoresPixels(t *testing.T) {
	translucent := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	translucent.SetNRGBA(0, 0, stdcolor.NRGBA{R: 255, A: 128})
	translucent.SetNRGBA(1, 1, stdcolor.NRGBA{B: 255, A: 255})
	cur, err := NewCursor(translucent, image.Pt(1, 1))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		cursor *Cursor
	}{
		{"arrow", DefaultCursor()},
		{"translucent", cur},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, drv := newComposited(t, WithCursor(tt.cursor))
			if err := comp.HideCursor(); err != nil {
				t.Fatal(err)
			}
			clean := frame(drv)
			if err := comp.ShowCursor(); err != nil {
				t.Fatal(err)
			}
			if err := comp.MoveCursorTo(image.Pt(30, 20)); err != nil {
				t.Fatal(err)
			}
			if bytes.Equal(frame(drv), clean) {
				t.Fatal("cursor left the frame unchanged")
			}
			if err := comp.HideCursor(); err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(frame(drv), clean) {
				t.Error("hiding did not restore the pixels under the cursor")
			}
		})
	}
}

func TestCompositorHideNests(t *testing.T) {
	comp, _ := newComposited(t)
	_ = comp.MoveCursorTo(image.Pt(10, 10))

	_ = comp.HideCursor()
	_ = comp.HideCursor()
	_ = comp.ShowCursor()
	if !comp.IsCursorHidden() || !pixel(t, comp, 10, 10).Equal(background) {
		t.Error("cursor shown after two hides and one show")
	}
	_ = comp.ShowCursor()
	if comp.IsCursorHidden() || !pixel(t, comp, 10, 10).Equal(color.Black) {
		t.Error("cursor not shown after balanced show")
	}
	// Extra shows do not underflow.
	_ = comp.ShowCursor()
	_ = comp.HideCursor()
	if !comp.IsCursorHidden() {
		t.Error("HideCursor after extra ShowCursor did not hide")
	}
}

func TestCompositorObscure(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(c *Compositor)
		hidden  bool
		shown   bool // after the move
	}{
		{
			name:    "obscure then move",
			prepare: func(c *Compositor) { _ = c.ObscureCursor(); _ = c.ObscureCursor() },
			shown:   true,
		},
		{
			name:    "obscure while hidden drops the level",
			prepare: func(c *Compositor) { _ = c.HideCursor(); _ = c.HideCursor(); _ = c.ObscureCursor() },
			shown:   true,
		},
		{
			name:    "driver hidden",
			prepare: func(c *Compositor) { _ = c.SetDriverHidden(true) },
			hidden:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, _ := newComposited(t)
			_ = comp.MoveCursorTo(image.Pt(10, 10))
			tt.prepare(comp)
			if !pixel(t, comp, 10, 10).Equal(background) {
				t.Error("cursor still on screen")
			}
			if comp.IsCursorHidden() != tt.hidden {
				t.Errorf("IsCursorHidden() = %v, want %v", comp.IsCursorHidden(), tt.hidden)
			}
			_ = comp.MoveCursorTo(image.Pt(20, 20))
			if comp.IsCursorObscured() {
				t.Error("still obscured after move")
			}
			if got := pixel(t, comp, 20, 20).Equal(color.Black); got != tt.shown {
				t.Errorf("cursor shown after move = %v, want %v", got, tt.shown)
			}
			if !pixel(t, comp, 10, 10).Equal(background) {
				t.Error("old position not restored")
			}
		})
	}
}

func TestCompositorHideWhileObscured(t *testing.T) {
	tests := []struct {
		name  string
		after func(c *Compositor) error
	}{
		{"hide only", func(*Compositor) error { return nil }},
		{"driver hidden round trip", func(c *Compositor) error {
			if err := c.SetDriverHidden(true); err != nil {
				return err
			}
			return c.SetDriverHidden(false)
		}},
		{"extra show", func(c *Compositor) error { return c.ShowCursor() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, _ := newComposited(t)
			_ = comp.MoveCursorTo(image.Pt(10, 10))
			_ = comp.ObscureCursor()
			if err := comp.HideCursor(); err != nil {
				t.Fatal(err)
			}
			if err := tt.after(comp); err != nil {
				t.Fatal(err)
			}

			if comp.IsCursorHidden() || comp.IsCursorObscured() {
				t.Fatalf("hidden=%v obscured=%v, want shown", comp.IsCursorHidden(), comp.IsCursorObscured())
			}
			if got := comp.Footprint(); got != image.Rect(10, 10, 22, 28) {
				t.Errorf("Footprint() = %v, want (10,10)-(22,28)", got)
			}
			if !pixel(t, comp, 10, 10).Equal(color.Black) {
				t.Error("shown cursor not composited")
			}

			_ = comp.MoveCursorTo(image.Pt(30, 30))
			if !pixel(t, comp, 10, 10).Equal(background) {
				t.Error("old position not restored after move")
			}
		})
	}
}

func TestCompositorHideWhileObscuredThenHide(t *testing.T) {
	comp, _ := newComposited(t)
	_ = comp.MoveCursorTo(image.Pt(10, 10))
	_ = comp.ObscureCursor()
	_ = comp.HideCursor()
	if err := comp.HideCursor(); err != nil {
		t.Fatal(err)
	}
	if !comp.IsCursorHidden() {
		t.Error("second HideCursor did not hide")
	}
	if !comp.Footprint().Empty() || !pixel(t, comp, 10, 10).Equal(background) {
		t.Error("hidden cursor still on screen")
	}
	_ = comp.ShowCursor()
	if !pixel(t, comp, 10, 10).Equal(color.Black) {
		t.Error("ShowCursor did not composite the cursor")
	}
}

func TestCompositorInitializeTwice(t *testing.T) {
	comp, drv := newComposited(t)
	before := frame(drv)
	if err := comp.Initialize(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(frame(drv), before) {
		t.Error("second Initialize changed the frame buffer")
	}
	_ = comp.MoveCursorTo(image.Pt(30, 30))
	if got := pixel(t, comp, 0, 0); !got.Equal(background) {
		t.Errorf("pixel at old cursor tip = %v, want background", got)
	}
	if !pixel(t, comp, 30, 30).Equal(color.Black) {
		t.Error("cursor not composited at new position")
	}
}

func TestCompositorIgnoresMovesOffScreen(t *testing.T) {
	comp, _ := newComposited(t)
	_ = comp.MoveCursorTo(image.Pt(5, 5))
	for _, p := range []image.Point{{-1, 0}, {64, 10}, {10, 64}} {
		if err := comp.MoveCursorTo(p); err != nil {
			t.Fatal(err)
		}
		if comp.CursorPosition() != image.Pt(5, 5) {
			t.Errorf("MoveCursorTo(%v) moved the cursor to %v", p, comp.CursorPosition())
		}
	}
}

func TestCompositorFootprintClipped(t *testing.T) {
	comp, _ := newComposited(t)
	_ = comp.MoveCursorTo(image.Pt(60, 58))
	if got := comp.Footprint(); got != image.Rect(60, 58, 64, 64) {
		t.Errorf("Footprint() = %v", got)
	}
	_ = comp.HideCursor()
	if !comp.Footprint().Empty() {
		t.Error("Footprint() not empty while hidden")
	}
}

func TestCompositorDrawingUnderCursor(t *testing.T) {
	comp, drv := newComposited(t)
	_ = comp.MoveCursorTo(image.Pt(10, 10))

	draws := []struct {
		name string
		draw func() error
		at   image.Point
	}{
		{"fill", func() error { return comp.FillRect(image.Rect(0, 0, 64, 64), solid(blue)) }, image.Pt(21, 10)},
		{"line", func() error { return comp.StrokeLine(Pt(0, 15), Pt(63, 15), solid(red)) }, image.Pt(20, 15)},
		{"ellipse", func() error { return comp.FillEllipse(image.Rect(5, 20, 30, 40), solid(green)) }, image.Pt(25, 30)},
		{"copy", func() error { return comp.CopyBits(image.Rect(40, 40, 60, 60), image.Rect(12, 12, 32, 32)) }, image.Pt(30, 30)},
		{"text", func() error { _, err := comp.DrawString("hi", Pt(40, 60), solid(red)); return err }, image.Pt(0, 0)},
	}
	for _, tt := range draws {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.draw(); err != nil {
				t.Fatal(err)
			}
			if !pixel(t, comp, 10, 10).Equal(color.Black) {
				t.Error("cursor tip lost")
			}
			if !pixel(t, comp, 11, 12).Equal(color.White) {
				t.Error("cursor fill lost")
			}
			want := pixel(t, drv, tt.at.X, tt.at.Y)
			_ = comp.HideCursor()
			if got := pixel(t, comp, tt.at.X, tt.at.Y); !got.Equal(want) {
				t.Errorf("pixel %v = %v after hide, want %v", tt.at, got, want)
			}
			_ = comp.ShowCursor()
		})
	}

	_ = comp.HideCursor()
	if !pixel(t, comp, 10, 10).Equal(blue) {
		t.Errorf("content under cursor = %v, want the fill", pixel(t, comp, 10, 10))
	}
}

func TestCompositorSetModeRecomposites(t *testing.T) {
	comp, drv := newComposited(t)
	_ = comp.MoveCursorTo(image.Pt(10, 10))

	if err := comp.SetMode(accelerant.NewMode(32, 32, color.CMAP8, 60)); err != nil {
		t.Fatal(err)
	}
	if drv.Space() != color.CMAP8 {
		t.Fatalf("Space() = %v", drv.Space())
	}
	if !pixel(t, comp, 10, 10).Equal(color.Black) {
		t.Error("cursor not composited into the new frame buffer")
	}
	if got := comp.Footprint(); got != image.Rect(10, 10, 22, 28) {
		t.Errorf("Footprint() = %v", got)
	}
	if !pixel(t, comp, 11, 12).Equal(color.White) {
		t.Error("cursor fill missing after SetMode")
	}
	_ = comp.HideCursor()
	if !pixel(t, comp, 11, 12).Equal(color.Black) {
		t.Error("hiding after SetMode did not restore the cleared frame buffer")
	}
	_ = comp.ShowCursor()

	if err := comp.SetMode(accelerant.NewMode(8, 8, color.RGB16, 60)); err != nil {
		t.Fatal(err)
	}
	if comp.CursorPosition() != (image.Point{}) {
		t.Errorf("CursorPosition() = %v after shrinking the screen", comp.CursorPosition())
	}
}

func TestCompositorHardwareCursor(t *testing.T) {
	tests := []struct {
		name     string
		opts     []CompositorOption
		hardware bool
	}{
		{"hardware", nil, true},
		{"forced software", []CompositorOption{WithSoftwareCursor()}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := virtual.New()
			t.Cleanup(card.Close)
			drv := NewAccelerantDriver(WithBackend(card), withSpace(color.RGB32))
			comp := NewCompositor(drv, tt.opts...)
			if err := comp.Initialize(); err != nil {
				t.Fatalf("Initialize() = %v", err)
			}
			t.Cleanup(func() { _ = comp.Shutdown() })
			_ = comp.FillRect(comp.Bounds(), solid(background))

			if comp.HardwareCursorActive() != tt.hardware {
				t.Fatalf("HardwareCursorActive() = %v", comp.HardwareCursorActive())
			}
			if err := comp.MoveCursorTo(image.Pt(5, 6)); err != nil {
				t.Fatal(err)
			}
			cs := card.Cursor()
			if !tt.hardware {
				if cs.Visible {
					t.Error("hardware cursor visible in software mode")
				}
				if !pixel(t, comp, 5, 6).Equal(color.Black) {
					t.Error("software cursor not drawn")
				}
				return
			}
			if !cs.Visible || cs.X != 5 || cs.Y != 6 {
				t.Errorf("card cursor = %+v", cs)
			}
			if !pixel(t, comp, 5, 6).Equal(background) {
				t.Error("hardware cursor drawn into the frame buffer")
			}
			if !comp.Footprint().Empty() {
				t.Errorf("Footprint() = %v with hardware cursor", comp.Footprint())
			}
			_ = comp.HideCursor()
			if card.Cursor().Visible {
				t.Error("hardware cursor visible after HideCursor")
			}
		})
	}
}
