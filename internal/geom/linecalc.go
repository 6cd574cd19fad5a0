package geom

import "math"

// LineCalc answers coordinate queries along a line segment. Vertical and
// horizontal segments are handled without dividing by a zero slope.
type LineCalc struct {
	start, end     Point
	slope, offset  float64
	minX, maxX     float64
	minY, maxY     float64
	vertical, flat bool
}

// NewLineCalc returns a calculator for the segment a-b.
func NewLineCalc(a, b Point) LineCalc {
	var l LineCalc
	l.SetPoints(a, b)
	return l
}

// SetPoints replaces the segment.
func (l *LineCalc) SetPoints(a, b Point) {
	l.start, l.end = a, b
	l.vertical = a.X == b.X
	l.flat = a.Y == b.Y
	if l.vertical {
		l.slope, l.offset = 0, 0
	} else {
		l.slope = (a.Y - b.Y) / (a.X - b.X)
		l.offset = a.Y - l.slope*a.X
	}
	l.minX, l.maxX = math.Min(a.X, b.X), math.Max(a.X, b.X)
	l.minY, l.maxY = math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
}

// Start returns the first endpoint.
func (l LineCalc) Start() Point { return l.start }

// End returns the second endpoint.
func (l LineCalc) End() Point { return l.end }

// Slope returns dy/dx, or 0 for vertical segments.
func (l LineCalc) Slope() float64 { return l.slope }

// IsVertical reports whether both endpoints share an X coordinate.
func (l LineCalc) IsVertical() bool { return l.vertical }

// IsHorizontal reports whether both endpoints share a Y coordinate.
func (l LineCalc) IsHorizontal() bool { return l.flat }

// GetX returns the X coordinate on the line at y. Vertical and horizontal
// segments return the start X.
func (l LineCalc) GetX(y float64) float64 {
	if l.vertical || l.flat {
		return l.start.X
	}
	return (y - l.offset) / l.slope
}

// GetY returns the Y coordinate on the line at x. Vertical segments
// return the start Y.
func (l LineCalc) GetY(x float64) float64 {
	if l.vertical {
		return l.start.Y
	}
	return l.slope*x + l.offset
}

// MinX returns the smallest X of the segment.
func (l LineCalc) MinX() float64 { return l.minX }

// MaxX returns the largest X of the segment.
func (l LineCalc) MaxX() float64 { return l.maxX }

// MinY returns the smallest Y of the segment.
func (l LineCalc) MinY() float64 { return l.minY }

// MaxY returns the largest Y of the segment.
func (l LineCalc) MaxY() float64 { return l.maxY }

// Bounds returns the segment's bounding box.
func (l LineCalc) Bounds() Rect {
	return Rect{Min: Pt(l.minX, l.minY), Max: Pt(l.maxX, l.maxY)}
}

// ClipToRect trims the segment to r, edges included. It returns false
// exactly when the segment's bounding box misses r, leaving the segment
// unchanged. A segment entirely inside r keeps its exact endpoints, and a
// segment whose box overlaps r while the line itself passes outside it is
// also left unchanged.
func (l *LineCalc) ClipToRect(r Rect) bool {
	if !l.Bounds().Overlaps(r) {
		return false
	}
	if r.Contains(l.start) && r.Contains(l.end) {
		return true
	}
	t0, t1, ok := l.visibleRange(r)
	if !ok {
		return true
	}

	d := l.end.Sub(l.start)
	a, b := l.start, l.end
	if t0 > 0 {
		a = l.start.Add(d.Mul(t0))
	}
	if t1 < 1 {
		b = l.start.Add(d.Mul(t1))
	}
	l.SetPoints(clampPoint(a, r), clampPoint(b, r))
	return true
}

// visibleRange runs Liang-Barsky over start + t*(end-start) and returns the
// parameter interval inside r. ok is false when no part of the line is
// inside.
func (l LineCalc) visibleRange(r Rect) (t0, t1 float64, ok bool) {
	d := l.end.Sub(l.start)
	t0, t1 = 0, 1
	edges := [4][2]float64{
		{-d.X, l.start.X - r.Min.X},
		{d.X, r.Max.X - l.start.X},
		{-d.Y, l.start.Y - r.Min.Y},
		{d.Y, r.Max.Y - l.start.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return t0, t1, true
}

// clampPoint removes rounding drift that would put a clipped endpoint a
// hair outside r.
func clampPoint(p Point, r Rect) Point {
	return Point{
		X: math.Min(math.Max(p.X, r.Min.X), r.Max.X),
		Y: math.Min(math.Max(p.Y, r.Min.Y), r.Max.Y),
	}
}
