// Command fbview runs the animated demo scene and shows the frame buffer in
// the terminal or in a window. The mouse moves the composited cursor.
package main

import (
	"errors"
	"flag"
	"image"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/display"
	"github.com/gogpu/display/color"
	"github.com/gogpu/display/internal/demo"
)

func main() {
	var (
		ui       = flag.String("ui", "term", "presenter: term or window")
		width    = flag.Int("width", 320, "screen width")
		height   = flag.Int("height", 240, "screen height")
		space    = flag.String("space", "RGB16", "frame buffer color space")
		fps      = flag.Int("fps", 30, "virtual retrace rate")
		software = flag.Bool("software", false, "draw without the virtual card")
		logFile  = flag.String("log", "", "write driver logs to this file")
	)
	flag.Parse()

	s, err := color.ParseSpace(*space)
	if err != nil {
		log.Fatal(err)
	}
	cfg := demo.Config{
		Width:          *width,
		Height:         *height,
		Space:          s,
		Software:       *software,
		SoftwareCursor: true,
		Retrace:        time.Second / time.Duration(max(*fps, 1)),
	}
	if *logFile != "" {
		f, err := os.Create(*logFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		cfg.Logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	d, err := demo.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open display: %v", err)
	}
	defer d.Close()

	mirror, err := display.NewBitmap(*width, *height, color.RGBA32)
	if err != nil {
		log.Fatal(err)
	}

	switch *ui {
	case "term":
		err = runTerminal(d, mirror)
	case "window":
		err = runWindow(d, mirror)
	default:
		log.Fatalf("unknown presenter %q", *ui)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// present copies the areas drawn since the last call into mirror and
// returns them.
func present(d *demo.Display, mirror *display.Bitmap) []image.Rectangle {
	rs := d.TakeDamage()
	for _, r := range rs {
		_ = d.CopyToBitmap(mirror, r, r.Min)
	}
	return rs
}

// waitFrame paces the terminal loop on the card's retrace, sleeping when
// the driver has none.
func waitFrame(d *demo.Display, period time.Duration) {
	err := d.WaitForRetrace(2 * period)
	if errors.Is(err, display.ErrUnsupported) {
		time.Sleep(period)
	}
}
