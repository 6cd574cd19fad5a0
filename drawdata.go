package display

import (
	"image"

	"github.com/gogpu/display/color"
	"github.com/gogpu/display/internal/geom"
	"github.com/gogpu/display/text"
)

// Point is a device coordinate. Integer values are pixel centers.
type Point = geom.Point

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return geom.Pt(x, y) }

// DrawMode selects how source pixels combine with the frame buffer.
type DrawMode uint8

// Drawing modes.
const (
	// ModeCopy replaces destination pixels.
	ModeCopy DrawMode = iota

	// ModeOver replaces destination pixels where the source alpha is above
	// 127 and leaves the rest untouched.
	ModeOver

	// ModeAlpha blends the source over the destination by source alpha.
	ModeAlpha
)

// String returns the mode name.
func (m DrawMode) String() string {
	switch m {
	case ModeCopy:
		return "copy"
	case ModeOver:
		return "over"
	case ModeAlpha:
		return "alpha"
	}
	return "unknown"
}

// Escapement is extra pen advance added after each glyph. Space applies
// after runes up to U+0020, NonSpace after every other rune.
type Escapement struct {
	Space    float64
	NonSpace float64
}

// DrawData is the graphics state passed to drawing calls.
type DrawData struct {
	HighColor color.Color
	LowColor  color.Color
	Pattern   color.Pattern
	Mode      DrawMode
	PenSize   float64

	// Clip restricts drawing to the union of these disjoint rectangles. A
	// nil Clip draws anywhere on screen; an empty non-nil Clip draws
	// nothing.
	Clip []image.Rectangle

	Escapement Escapement

	// Font overrides the driver's default face for text calls.
	Font text.Face
}

// NewDrawData returns black-on-white solid drawing state with a 1 pixel
// pen.
func NewDrawData() *DrawData {
	return &DrawData{
		HighColor: color.Black,
		LowColor:  color.White,
		Pattern:   color.PatternSolidHigh,
		Mode:      ModeCopy,
		PenSize:   1,
	}
}

// Clone returns a deep copy of d.
func (d *DrawData) Clone() *DrawData {
	c := *d
	if d.Clip != nil {
		c.Clip = append([]image.Rectangle{}, d.Clip...)
	}
	return &c
}

// orDefault returns d, or default state when d is nil.
func (d *DrawData) orDefault() *DrawData {
	if d == nil {
		return NewDrawData()
	}
	return d
}

// solid returns the color of a solid pattern. ok is false for mixed
// patterns.
func (d *DrawData) solid() (c color.Color, ok bool) {
	switch d.Pattern {
	case color.PatternSolidHigh:
		return d.HighColor, true
	case color.PatternSolidLow:
		return d.LowColor, true
	}
	return color.Color{}, false
}

// LineSegment is one line of a StrokeLineArray call, drawn in its own
// color.
type LineSegment struct {
	A, B  Point
	Color color.Color
}
