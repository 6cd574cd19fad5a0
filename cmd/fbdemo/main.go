// Command fbdemo renders the demo scene headlessly and writes it as PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/color"
	"github.com/gogpu/display/internal/demo"
)

func main() {
	var (
		width    = flag.Int("width", 640, "screen width")
		height   = flag.Int("height", 480, "screen height")
		space    = flag.String("space", "RGB32", "frame buffer color space")
		frame    = flag.Int("frame", 0, "scene frame to render")
		cursor   = flag.String("cursor", "", "cursor position as x,y (empty hides it)")
		software = flag.Bool("software", false, "draw without the virtual card")
		switchTo = flag.String("switch", "", "after drawing, switch to this mode (WxH:SPACE) and draw again")
		verbose  = flag.Bool("v", false, "log driver activity")
		output   = flag.String("output", "display.png", "output file")
	)
	flag.Parse()

	s, err := color.ParseSpace(*space)
	if err != nil {
		log.Fatal(err)
	}
	// The PNG is read from the frame buffer, so the cursor is composited
	// in software.
	cfg := demo.Config{Width: *width, Height: *height, Space: s, Software: *software, SoftwareCursor: true}
	var next accelerant.DisplayMode
	if *switchTo != "" {
		next, err = parseMode(*switchTo)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Extra = append(cfg.Extra, next)
	}
	if *verbose {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	d, err := demo.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open display: %v", err)
	}
	defer d.Close()

	if *cursor == "" {
		_ = d.HideCursor()
	} else {
		p, err := parsePoint(*cursor)
		if err != nil {
			log.Fatal(err)
		}
		if err := d.MoveCursorTo(p); err != nil {
			log.Fatal(err)
		}
	}

	if err := demo.Draw(d, *frame); err != nil {
		log.Fatalf("Failed to draw: %v", err)
	}
	if *switchTo != "" {
		if err := d.SetMode(next); err != nil {
			log.Fatalf("Failed to switch to %v: %v", next, err)
		}
		if err := demo.Draw(d, *frame); err != nil {
			log.Fatalf("Failed to draw: %v", err)
		}
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatal(err)
	}
	if err := d.DumpPNG(f); err != nil {
		_ = f.Close()
		log.Fatalf("Failed to save: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("Frame %d saved to %s (%v)\n", *frame, *output, d.Mode())
}

func parsePoint(s string) (image.Point, error) {
	var p image.Point
	if _, err := fmt.Sscanf(s, "%d,%d", &p.X, &p.Y); err != nil {
		return p, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return p, nil
}

func parseMode(s string) (accelerant.DisplayMode, error) {
	var w, h int
	var name string
	if _, err := fmt.Sscanf(strings.Replace(s, ":", " ", 1), "%dx%d %s", &w, &h, &name); err != nil {
		return accelerant.DisplayMode{}, fmt.Errorf("invalid mode %q: %w", s, err)
	}
	space, err := color.ParseSpace(name)
	if err != nil {
		return accelerant.DisplayMode{}, err
	}
	return accelerant.NewMode(w, h, space, 60), nil
}
