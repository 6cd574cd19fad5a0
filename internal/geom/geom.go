// Package geom provides the float geometry used by the rasterizer: points,
// inclusive rectangles, line calculations and Bezier flattening.
package geom

import (
	"image"
	"math"
)

// Point is a position in device space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Lerp interpolates between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Length returns the distance from the origin.
func (p Point) Length() float64 { return math.Hypot(p.X, p.Y) }

// Round returns the nearest integer pixel.
func (p Point) Round() image.Point {
	return image.Point{X: Round(p.X), Y: Round(p.Y)}
}

// Round rounds half away from zero, matching pixel-center snapping.
func Round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Rect is a rectangle whose Max edge is inclusive, as used for clipping
// against pixel rows and columns.
type Rect struct {
	Min, Max Point
}

// RectFromImage converts a half-open integer rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		Min: Point{X: float64(r.Min.X), Y: float64(r.Min.Y)},
		Max: Point{X: float64(r.Max.X - 1), Y: float64(r.Max.Y - 1)},
	}
}

// Empty reports whether r contains no points.
func (r Rect) Empty() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Overlaps reports whether r and s share at least one point.
func (r Rect) Overlaps(s Rect) bool {
	return !r.Empty() && !s.Empty() &&
		r.Min.X <= s.Max.X && s.Min.X <= r.Max.X &&
		r.Min.Y <= s.Max.Y && s.Min.Y <= r.Max.Y
}

// Bounds returns the smallest rectangle holding every point.
func Bounds(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{Min: Pt(0, 0), Max: Pt(-1, -1)}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}

// PixelBounds returns the half-open pixel rectangle covering r after
// snapping both corners to pixel centers.
func (r Rect) PixelBounds() image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	return image.Rect(Round(r.Min.X), Round(r.Min.Y), Round(r.Max.X)+1, Round(r.Max.Y)+1)
}
