package main

import (
	"image"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/display"
	"github.com/gogpu/display/internal/demo"
)

// upperHalf draws the top pixel of a cell in the foreground color and the
// bottom one in the background color.
const upperHalf = '▀'

type terminal struct {
	screen tcell.Screen
	d      *demo.Display
	mirror *display.Bitmap

	cols, rows int
	sx, sy     float64 // frame buffer pixels per half cell
}

func runTerminal(d *demo.Display, mirror *display.Bitmap) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	t := &terminal{screen: screen, d: d, mirror: mirror}
	t.resize()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	period := time.Second / 30
	for n := 0; ; n++ {
		for drained := false; !drained; {
			select {
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if t.handle(ev) {
					return nil
				}
			default:
				drained = true
			}
		}
		if err := demo.Draw(d, n); err != nil {
			return err
		}
		waitFrame(d, period)
		if len(present(d, mirror)) > 0 {
			t.paint()
		}
	}
}

// handle processes one event and reports whether the viewer should quit.
func (t *terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q'
	case *tcell.EventResize:
		t.resize()
		t.screen.Sync()
		t.paint()
	case *tcell.EventMouse:
		x, y := ev.Position()
		p := image.Pt(int((float64(x)+0.5)*t.sx), int((float64(y)+0.5)*2*t.sy))
		_ = t.d.MoveCursorTo(p)
	}
	return false
}

func (t *terminal) resize() {
	t.cols, t.rows = t.screen.Size()
	t.cols, t.rows = max(t.cols, 1), max(t.rows, 1)
	t.sx = float64(t.mirror.Width()) / float64(t.cols)
	t.sy = float64(t.mirror.Height()) / float64(2*t.rows)
}

func (t *terminal) sample(x, y float64) tcell.Color {
	px := min(int(x), t.mirror.Width()-1)
	py := min(int(y), t.mirror.Height()-1)
	r, g, b, _ := t.mirror.ColorAt(px, py).Components()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (t *terminal) paint() {
	for cy := 0; cy < t.rows; cy++ {
		for cx := 0; cx < t.cols; cx++ {
			x := float64(cx) * t.sx
			top := t.sample(x, float64(2*cy)*t.sy)
			bottom := t.sample(x, float64(2*cy+1)*t.sy)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			t.screen.SetContent(cx, cy, upperHalf, nil, style)
		}
	}
	t.screen.Show()
}
