// Package demo builds a composited display and draws the animated test
// scene shared by the fbdemo and fbview commands.
package demo

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/gogpu/display"
	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/accelerant/virtual"
	"github.com/gogpu/display/color"
)

// Config selects the driver and mode of a demo display.
type Config struct {
	Width, Height int
	Space         color.Space

	// Software draws into ordinary memory instead of a virtual card.
	Software bool

	// Extra lists further modes the virtual card offers besides the
	// start mode.
	Extra []accelerant.DisplayMode

	// SoftwareCursor composites the cursor into the frame buffer even
	// when the card has a hardware cursor.
	SoftwareCursor bool

	// Retrace is the virtual card's retrace period. Zero disables it.
	Retrace time.Duration

	Logger *slog.Logger
}

// Display is a composited driver together with the card behind it, if
// any.
type Display struct {
	*display.Compositor
	Card *virtual.Card
}

// Open creates and initializes a display for cfg.
func Open(cfg Config) (*Display, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("demo: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	mode := accelerant.NewMode(cfg.Width, cfg.Height, cfg.Space, 60)
	opts := []display.DriverOption{display.WithMode(mode)}
	if cfg.Logger != nil {
		opts = append(opts, display.WithLogger(cfg.Logger))
	}

	d := &Display{}
	var drv display.Driver
	if cfg.Software {
		drv = display.NewSoftwareDriver(opts...)
	} else {
		d.Card = virtual.New(
			virtual.WithModes(append([]accelerant.DisplayMode{mode}, cfg.Extra...)...),
			virtual.WithRetraceInterval(cfg.Retrace),
			virtual.WithDeviceName("demo"),
		)
		drv = display.NewAccelerantDriver(append(opts, display.WithBackend(d.Card))...)
	}
	var copts []display.CompositorOption
	if cfg.SoftwareCursor {
		copts = append(copts, display.WithSoftwareCursor())
	}
	d.Compositor = display.NewCompositor(drv, copts...)
	if err := d.Initialize(); err != nil {
		if d.Card != nil {
			d.Card.Close()
		}
		return nil, err
	}
	return d, nil
}

// Close shuts the display down.
func (d *Display) Close() error {
	err := d.Shutdown()
	if d.Card != nil {
		d.Card.Close()
	}
	return err
}

var (
	sky   = color.RGB(24, 40, 72)
	stone = color.RGB(90, 90, 110)
	amber = color.RGB(250, 180, 40)
	mint  = color.RGB(80, 220, 160)
	rose  = color.RGB(230, 70, 110)
)

// Draw paints frame n of the scene onto drv. The scene scales with the
// screen and animates a ball, a sweeping line fan and a palette strip.
func Draw(drv display.Driver, n int) error {
	b := drv.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	u := min(w, h) / 24

	bg := display.NewDrawData()
	bg.HighColor, bg.LowColor = sky, color.RGB(32, 52, 88)
	bg.Pattern = color.NewPattern([8]uint8{0xff, 0xff, 0xff, 0xef, 0xff, 0xff, 0xff, 0xfe})
	errs := []error{drv.FillRect(b, bg)}

	// Palette strip: a scaled hue ramp.
	strip, err := hueStrip(32, n)
	if err != nil {
		return err
	}
	stripDst := image.Rect(0, b.Max.Y-int(2*u), b.Max.X, b.Max.Y)
	errs = append(errs, drv.DrawBitmap(strip, strip.Bounds(), stripDst, nil))

	// Panels with frames.
	panel := solid(stone)
	frame := solid(color.White)
	frame.PenSize = 2
	for i := 0; i < 3; i++ {
		r := image.Rect(int(u+float64(i)*7*u), int(u), int(u+float64(i)*7*u+6*u), int(7*u))
		errs = append(errs, drv.FillRect(r, panel), drv.StrokeRect(r, frame))
	}

	// Shapes inside the panels.
	errs = append(errs,
		drv.FillTriangle([3]display.Point{
			display.Pt(2*u, 6*u), display.Pt(4*u, 2*u), display.Pt(6*u, 6*u),
		}, solid(amber)),
		drv.FillEllipse(image.Rect(int(9*u), int(2*u), int(13*u), int(6*u)), solid(mint)),
		drv.StrokeEllipse(image.Rect(int(8.5*u), int(1.5*u), int(13.5*u), int(6.5*u)), penned(rose, 3)),
		drv.FillBezier([4]display.Point{
			display.Pt(16*u, 6*u), display.Pt(15*u, 0), display.Pt(21*u, 0), display.Pt(20*u, 6*u),
		}, solid(rose)),
		drv.StrokeBezier([4]display.Point{
			display.Pt(16*u, 6*u), display.Pt(17*u, 3*u), display.Pt(19*u, 9*u), display.Pt(20*u, 2*u),
		}, penned(color.White, 1)),
	)

	// Line fan sweeping with the frame number.
	center := display.Pt(w/2, h/2+2*u)
	lines := make([]display.LineSegment, 0, 24)
	for i := 0; i < 24; i++ {
		a := float64(i)*math.Pi/12 + float64(n)*0.05
		end := center.Add(display.Pt(math.Cos(a), math.Sin(a)).Mul(5 * u))
		c := color.FromHSV(float64(i)*15, 0.8, 1)
		lines = append(lines, display.LineSegment{A: center, B: end, Color: c})
	}
	errs = append(errs, drv.StrokeLineArray(lines, nil))
	errs = append(errs, drv.StrokeLineArray([]display.LineSegment{
		{A: display.Pt(u, h/2), B: display.Pt(w-u, h/2), Color: stone},
		{A: display.Pt(w/2, 8*u), B: display.Pt(w/2, h-3*u), Color: stone},
	}, nil))

	// Star polygon outline and fill.
	star := starPoints(display.Pt(4*u, 13*u), 3*u, 1.2*u)
	errs = append(errs, drv.FillPolygon(star, solid(amber)), drv.StrokePolygon(star, true, penned(color.Black, 1)))

	// Bouncing ball.
	x := u + math.Abs(math.Mod(float64(n)*u/4, 2*(w-4*u))-(w-4*u))
	ball := image.Rect(int(x), int(h-6*u), int(x+2*u), int(h-4*u))
	errs = append(errs, drv.FillEllipse(ball, solid(rose)))

	// Caption, with an echo copied below it and a highlight inverted over
	// part of it.
	text := solid(color.White)
	text.Mode = display.ModeOver
	text.LowColor = sky
	end, err := drv.DrawString(fmt.Sprintf("display demo - frame %d", n), display.Pt(w/2+u, 10*u), text)
	errs = append(errs, err)
	capBox := image.Rect(int(w/2+u), int(8.5*u), int(end.X)+1, int(10.5*u))
	errs = append(errs,
		drv.CopyBits(capBox, capBox.Add(image.Pt(0, int(3*u)))),
		drv.InvertRect(capBox.Add(image.Pt(0, int(3*u))).Inset(1)),
	)
	return errors.Join(errs...)
}

func solid(c color.Color) *display.DrawData {
	d := display.NewDrawData()
	d.HighColor = c
	return d
}

func penned(c color.Color, pen float64) *display.DrawData {
	d := solid(c)
	d.PenSize = pen
	return d
}

// hueStrip returns a w x 1 bitmap whose hues are rotated by n.
func hueStrip(w, n int) (*display.Bitmap, error) {
	bmp, err := display.NewBitmap(w, 1, color.RGBA32)
	if err != nil {
		return nil, err
	}
	for x := 0; x < w; x++ {
		bmp.SetColorAt(x, 0, color.FromHSV(math.Mod(float64(x*360/w+n*4), 360), 0.7, 0.9))
	}
	return bmp, nil
}

func starPoints(c display.Point, outer, inner float64) []display.Point {
	pts := make([]display.Point, 0, 10)
	for i := 0; i < 10; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		pts = append(pts, c.Add(display.Pt(math.Cos(a), math.Sin(a)).Mul(r)))
	}
	return pts
}
