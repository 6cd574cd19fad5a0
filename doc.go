// Package display is a display driver core: it owns a frame buffer, renders
// primitives into it and composites a cursor over the result.
//
// # Drivers
//
// A Driver renders rectangles, lines, polygons, Bezier curves, ellipses,
// bitmaps and text into a frame buffer in any rasterizable color space.
// Two implementations share one software rasterizer:
//
//   - SoftwareDriver allocates its own frame buffer.
//   - AccelerantDriver maps the frame buffer of an accelerant backend (see
//     package accelerant) and sends fills, inverts and screen copies to the
//     backend's engine when the hook is present and the engine can be
//     acquired. Otherwise it falls back to software rendering. Both paths
//     write identical bytes.
//
// Every operation returns an error; drawing before Initialize or after
// Shutdown returns ErrNotInitialized. Coordinates are device pixels.
// Rectangles are half-open image.Rectangle values. Points are float
// coordinates snapped to pixel centers.
//
// # Quick Start
//
//	drv := display.NewSoftwareDriver(display.WithMode(
//	    accelerant.NewMode(640, 480, color.RGB32, 60)))
//	if err := drv.Initialize(); err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Shutdown()
//
//	d := display.NewDrawData()
//	d.HighColor = color.RGB(200, 40, 40)
//	drv.FillRect(image.Rect(10, 10, 200, 120), d)
//	drv.StrokeLine(display.Pt(0, 0), display.Pt(639, 479), d)
//
// # Cursor
//
// A Compositor wraps any Driver and keeps a cursor on screen. It saves the
// pixels under the cursor, restores them around every primitive that
// touches the cursor, and tracks the hide level, the obscured state and a
// host-forced hide. When the wrapped driver has a hardware cursor the
// compositor programs it instead.
//
// # Damage
//
// Each primitive reports the rectangle it changed. Drivers collect these in
// a tile map read with TakeDamage and forward them to an optional
// Invalidator.
package display
