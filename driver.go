package display

import (
	"image"
	"io"
	"time"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/color"
)

// State is the lifecycle state of a driver.
type State uint8

// Driver states. SetMode keeps a driver Initialized.
const (
	StateUninitialized State = iota
	StateInitialized
	StateShutdown
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateShutdown:
		return "shutdown"
	}
	return "unknown"
}

// Driver owns a frame buffer and renders primitives into it.
//
// Coordinates are device pixels. Rectangles are half-open image.Rectangle
// values; points are pixel centers. Every drawing call honors d.Clip and
// reports the rectangle it changed to the driver's Invalidator. A nil
// DrawData draws with NewDrawData defaults.
//
// Drawing before Initialize or after Shutdown returns ErrNotInitialized.
// Implementations are safe for concurrent use.
type Driver interface {
	// Initialize brings the driver up in its configured mode.
	Initialize() error

	// Shutdown releases the frame buffer and any backend. A driver that
	// was shut down cannot be initialized again.
	Shutdown() error

	// State returns the lifecycle state.
	State() State

	// SetMode switches to mode and rebuilds the frame buffer. The whole
	// screen is invalidated; its contents are undefined.
	SetMode(mode accelerant.DisplayMode) error

	// Mode returns the active mode.
	Mode() accelerant.DisplayMode

	// Bounds returns the screen rectangle, or the empty rectangle when not
	// initialized.
	Bounds() image.Rectangle

	// Space returns the frame buffer color space.
	Space() color.Space

	FillRect(r image.Rectangle, d *DrawData) error
	FillRegion(rs []image.Rectangle, d *DrawData) error
	StrokeRect(r image.Rectangle, d *DrawData) error

	// InvertRect inverts the color channels of every pixel in r. Clipping
	// is not applied.
	InvertRect(r image.Rectangle) error

	StrokeLine(a, b Point, d *DrawData) error
	StrokePoint(p Point, d *DrawData) error

	// StrokeLineArray draws every segment in its own color under one lock
	// and one invalidation.
	StrokeLineArray(lines []LineSegment, d *DrawData) error

	StrokePolygon(pts []Point, closed bool, d *DrawData) error
	FillPolygon(pts []Point, d *DrawData) error
	FillTriangle(pts [3]Point, d *DrawData) error

	// StrokeBezier and FillBezier take the cubic start, control 1,
	// control 2, end.
	StrokeBezier(pts [4]Point, d *DrawData) error
	FillBezier(pts [4]Point, d *DrawData) error

	// StrokeEllipse and FillEllipse use the ellipse inscribed in r.
	StrokeEllipse(r image.Rectangle, d *DrawData) error
	FillEllipse(r image.Rectangle, d *DrawData) error

	// DrawBitmap draws the src part of bmp scaled into dst.
	DrawBitmap(bmp *Bitmap, src, dst image.Rectangle, d *DrawData) error

	// CopyBits moves the src screen area to dst, which must have the same
	// size. Overlapping areas are handled.
	CopyBits(src, dst image.Rectangle) error

	// CopyToBitmap reads the src screen area into bmp at offset at,
	// converting to the bitmap's color space.
	CopyToBitmap(bmp *Bitmap, src image.Rectangle, at image.Point) error

	// GetPixel reads one screen pixel.
	GetPixel(x, y int) (color.Color, error)

	// DrawString draws s with its baseline starting at p and returns the
	// pen position after the last glyph.
	DrawString(s string, p Point, d *DrawData) (Point, error)
	DrawChar(r rune, p Point, d *DrawData) (Point, error)

	// StringWidth returns the advance of s including escapement.
	StringWidth(s string, d *DrawData) (float64, error)

	// WaitForRetrace blocks until the next vertical retrace or until
	// timeout passes. A negative timeout waits forever.
	WaitForRetrace(timeout time.Duration) error

	// DumpPNG encodes the frame buffer as PNG.
	DumpPNG(w io.Writer) error
}

// HardwareCursor is implemented by drivers whose backend draws the cursor.
type HardwareCursor interface {
	HasHardwareCursor() bool
	SetCursorShape(c *Cursor) error
	MoveCursor(x, y int) error
	ShowCursor(visible bool) error
}

// DamageSource is implemented by drivers that track damaged tiles.
type DamageSource interface {
	// TakeDamage returns and clears the damaged screen areas.
	TakeDamage() []image.Rectangle
}

var (
	_ Driver = (*SoftwareDriver)(nil)
	_ Driver = (*AccelerantDriver)(nil)
	_ Driver = (*Compositor)(nil)

	_ HardwareCursor = (*AccelerantDriver)(nil)
	_ DamageSource   = (*SoftwareDriver)(nil)
	_ DamageSource   = (*AccelerantDriver)(nil)
	_ DamageSource   = (*Compositor)(nil)
)
