package display

import (
	"image"
	"math"
	"slices"

	"github.com/gogpu/display/internal/geom"
)

// strokeLine draws the segment a-b. Thin lines step one pixel along the
// major axis; thicker pens fill the quadrilateral around the segment.
func (e *raster) strokeLine(a, b Point, d *DrawData, clips []image.Rectangle) image.Rectangle {
	if d.PenSize > 1 {
		return e.thickLine(a, b, d, clips)
	}
	return e.thinLine(a.Round(), b.Round(), d, clips)
}

func (e *raster) thinLine(a, b image.Point, d *DrawData, clips []image.Rectangle) image.Rectangle {
	box := image.Rect(a.X, a.Y, b.X, b.Y).Canon()
	box.Max = box.Max.Add(image.Pt(1, 1))
	dirty := clipped(box, clips)
	if dirty.Empty() {
		return image.Rectangle{}
	}

	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		e.plot(a.X, a.Y, d, clips)
		return dirty
	}

	lc := geom.NewLineCalc(geom.Pt(float64(a.X), float64(a.Y)), geom.Pt(float64(b.X), float64(b.Y)))
	for _, c := range clips {
		cr := geom.Rect{
			Min: geom.Pt(float64(c.Min.X), float64(c.Min.Y)),
			Max: geom.Pt(float64(c.Max.X-1), float64(c.Max.Y-1)),
		}
		if l := lc; !l.ClipToRect(cr) {
			continue
		}
		if abs(dx) >= abs(dy) {
			p, q := a, b
			if dx < 0 {
				p, q = b, a
			}
			ddx, ddy := q.X-p.X, q.Y-p.Y
			for x := max(p.X, c.Min.X); x <= min(q.X, c.Max.X-1); x++ {
				y := p.Y + floorDiv(2*(x-p.X)*ddy+ddx, 2*ddx)
				if y >= c.Min.Y && y < c.Max.Y {
					e.paintRun(x, y, 1, d)
				}
			}
			continue
		}
		p, q := a, b
		if dy < 0 {
			p, q = b, a
		}
		ddx, ddy := q.X-p.X, q.Y-p.Y
		for y := max(p.Y, c.Min.Y); y <= min(q.Y, c.Max.Y-1); y++ {
			x := p.X + floorDiv(2*(y-p.Y)*ddx+ddy, 2*ddy)
			if x >= c.Min.X && x < c.Max.X {
				e.paintRun(x, y, 1, d)
			}
		}
	}
	return dirty
}

// thickLine fills the quadrilateral offset PenSize/2 to each side of a-b.
// Ends are flat.
func (e *raster) thickLine(a, b Point, d *DrawData, clips []image.Rectangle) image.Rectangle {
	v := b.Sub(a)
	l := v.Length()
	if l == 0 {
		return e.fillEllipse(penBox(a, d.PenSize), d, clips)
	}
	n := geom.Pt(-v.Y/l, v.X/l).Mul(d.PenSize / 2)
	return e.fillPolygon([]Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, d, clips)
}

// penBox returns the square of side pen centered on p.
func penBox(p Point, pen float64) image.Rectangle {
	h := pen / 2
	return image.Rect(geom.Round(p.X-h+0.5), geom.Round(p.Y-h+0.5),
		geom.Round(p.X+h+0.5), geom.Round(p.Y+h+0.5))
}

func (e *raster) strokePoint(p Point, d *DrawData, clips []image.Rectangle) image.Rectangle {
	if d.PenSize > 1 {
		return e.fillEllipse(penBox(p, d.PenSize), d, clips)
	}
	q := p.Round()
	if !inClips(q.X, q.Y, clips) {
		return image.Rectangle{}
	}
	e.paintRun(q.X, q.Y, 1, d)
	return image.Rectangle{Min: q, Max: q.Add(image.Pt(1, 1))}
}

func (e *raster) strokePolyline(pts []Point, closed bool, d *DrawData, clips []image.Rectangle) image.Rectangle {
	var dirty image.Rectangle
	switch len(pts) {
	case 0:
		return dirty
	case 1:
		return e.strokePoint(pts[0], d, clips)
	}
	for i := 1; i < len(pts); i++ {
		dirty = dirty.Union(e.strokeLine(pts[i-1], pts[i], d, clips))
	}
	if closed && len(pts) > 2 {
		dirty = dirty.Union(e.strokeLine(pts[len(pts)-1], pts[0], d, clips))
	}
	return dirty
}

// fillPolygon fills pts with the even-odd rule, sampling each row at
// pixel centers. A pixel is inside when its center lies in [left, right)
// of a crossing pair.
func (e *raster) fillPolygon(pts []Point, d *DrawData, clips []image.Rectangle) image.Rectangle {
	if len(pts) < 3 {
		return image.Rectangle{}
	}
	bb := geom.Bounds(pts)
	y0 := max(int(math.Ceil(bb.Min.Y)), e.bounds.Min.Y)
	y1 := min(int(math.Ceil(bb.Max.Y)), e.bounds.Max.Y)

	var dirty image.Rectangle
	xs := make([]float64, 0, 8)
	for y := y0; y < y1; y++ {
		fy := float64(y)
		xs = xs[:0]
		for i := range pts {
			p, q := pts[i], pts[(i+1)%len(pts)]
			if (p.Y <= fy && fy < q.Y) || (q.Y <= fy && fy < p.Y) {
				xs = append(xs, p.X+(fy-p.Y)*(q.X-p.X)/(q.Y-p.Y))
			}
		}
		slices.Sort(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			l, r := int(math.Ceil(xs[i])), int(math.Ceil(xs[i+1]))
			if l >= r {
				continue
			}
			e.hspan(l, r, y, d, clips)
			dirty = dirty.Union(clipped(image.Rect(l, y, r, y+1), clips))
		}
	}
	return dirty
}

func (e *raster) strokeBezier(pts [4]Point, d *DrawData, clips []image.Rectangle) image.Rectangle {
	return e.strokePolyline(geom.FlattenBezier(pts[0], pts[1], pts[2], pts[3]), false, d, clips)
}

func (e *raster) fillBezier(pts [4]Point, d *DrawData, clips []image.Rectangle) image.Rectangle {
	return e.fillPolygon(geom.FlattenBezier(pts[0], pts[1], pts[2], pts[3]), d, clips)
}

// ellipseSpan returns the inclusive pixel range of row y inside the
// ellipse with center (cx, cy) and radii rx, ry.
func ellipseSpan(y int, cx, cy, rx, ry float64) (l, r int, ok bool) {
	t := (float64(y) - cy) / ry
	if t < -1 || t > 1 {
		return 0, 0, false
	}
	hw := rx * math.Sqrt(1-t*t)
	return int(math.Ceil(cx - hw)), int(math.Floor(cx + hw)), true
}

// ellipseGeometry returns the center and radii of the ellipse inscribed in
// r. Radii include half a pixel so that the extreme pixels are covered.
func ellipseGeometry(r image.Rectangle) (cx, cy, rx, ry float64) {
	cx = float64(r.Min.X+r.Max.X-1) / 2
	cy = float64(r.Min.Y+r.Max.Y-1) / 2
	return cx, cy, float64(r.Dx()) / 2, float64(r.Dy()) / 2
}

func (e *raster) fillEllipse(r image.Rectangle, d *DrawData, clips []image.Rectangle) image.Rectangle {
	r = r.Canon()
	if r.Empty() {
		return image.Rectangle{}
	}
	cx, cy, rx, ry := ellipseGeometry(r)
	for y := max(r.Min.Y, e.bounds.Min.Y); y < min(r.Max.Y, e.bounds.Max.Y); y++ {
		l, rr, ok := ellipseSpan(y, cx, cy, rx, ry)
		if !ok {
			continue
		}
		e.hspan(max(l, r.Min.X), min(rr+1, r.Max.X), y, d, clips)
	}
	return clipped(r, clips)
}

// strokeEllipse draws a ring pen pixels wide inside r.
func (e *raster) strokeEllipse(r image.Rectangle, d *DrawData, clips []image.Rectangle) image.Rectangle {
	r = r.Canon()
	if r.Empty() {
		return image.Rectangle{}
	}
	pen := float64(penWidth(d))
	cx, cy, rx, ry := ellipseGeometry(r)
	irx, iry := rx-pen, ry-pen
	if irx <= 0 || iry <= 0 {
		return e.fillEllipse(r, d, clips)
	}
	for y := max(r.Min.Y, e.bounds.Min.Y); y < min(r.Max.Y, e.bounds.Max.Y); y++ {
		ol, or, ok := ellipseSpan(y, cx, cy, rx, ry)
		if !ok {
			continue
		}
		ol, or = max(ol, r.Min.X), min(or, r.Max.X-1)
		il, ir, inner := ellipseSpan(y, cx, cy, irx, iry)
		if !inner || il > ir {
			e.hspan(ol, or+1, y, d, clips)
			continue
		}
		e.hspan(ol, il, y, d, clips)
		e.hspan(ir+1, or+1, y, d, clips)
	}
	return clipped(r, clips)
}

// floorDiv divides rounding toward negative infinity. b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
