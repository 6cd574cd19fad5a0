package geom

import "math"

// MaxBezierDepth bounds the subdivision of a single cubic. A curve split
// this many times yields at most 1<<MaxBezierDepth segments.
const MaxBezierDepth = 16

// collinearEpsilon is the largest cross product, in square device pixels,
// treated as zero.
const collinearEpsilon = 1e-9

// FlattenBezier converts the cubic p0, c1, c2, p3 into a polyline that
// starts at p0 and ends at p3. Subdivision stops when a piece's endpoints
// are within one device pixel of each other or when its four control
// points are collinear; four collinear input points yield just the two
// endpoints.
func FlattenBezier(p0, c1, c2, p3 Point) []Point {
	pts := make([]Point, 0, 16)
	pts = append(pts, p0)
	flattenBezierRec(p0, c1, c2, p3, 0, &pts)
	return pts
}

// flattenBezierRec appends every point after p0 up to and including p3.
func flattenBezierRec(p0, c1, c2, p3 Point, depth int, pts *[]Point) {
	if depth >= MaxBezierDepth || collinear(p0, c1, c2, p3) ||
		(depth > 0 && withinPixel(p0, p3)) {
		*pts = append(*pts, p3)
		return
	}

	// de Casteljau split at t=0.5.
	p01 := p0.Lerp(c1, 0.5)
	p12 := c1.Lerp(c2, 0.5)
	p23 := c2.Lerp(p3, 0.5)
	p012 := p01.Lerp(p12, 0.5)
	p123 := p12.Lerp(p23, 0.5)
	mid := p012.Lerp(p123, 0.5)

	flattenBezierRec(p0, p01, p012, mid, depth+1, pts)
	flattenBezierRec(mid, p123, p23, p3, depth+1, pts)
}

func withinPixel(a, b Point) bool {
	return math.Abs(a.X-b.X) <= 1 && math.Abs(a.Y-b.Y) <= 1
}

// collinear reports whether b, c and d lie on the line through a. Coincident
// points count as collinear.
func collinear(a, b, c, d Point) bool {
	return math.Abs(cross(a, b, c)) <= collinearEpsilon &&
		math.Abs(cross(a, b, d)) <= collinearEpsilon &&
		math.Abs(cross(a, c, d)) <= collinearEpsilon &&
		math.Abs(cross(b, c, d)) <= collinearEpsilon
}

func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}
