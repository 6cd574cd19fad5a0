package display

import (
	"fmt"
	"image"

	"github.com/gogpu/display/buffer"
	"github.com/gogpu/display/color"
	"github.com/gogpu/display/internal/render"
	"github.com/gogpu/display/text"
)

// raster draws into one graphics buffer with the renderer of its color
// space. It holds no lock; the owning driver serializes calls.
//
// Every drawing method returns the rectangle it may have changed, which
// is empty when nothing was drawn.
type raster struct {
	buf    *buffer.Buffer
	r      render.Renderer
	bounds image.Rectangle
	face   text.Face
}

func newRaster(buf *buffer.Buffer, face text.Face) (*raster, error) {
	r, ok := render.For(buf.Space())
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrSpaceUnsupported, buf.Space())
	}
	return &raster{buf: buf, r: r, bounds: buf.Bounds(), face: face}, nil
}

// clips returns the clip rectangles of d intersected with the screen.
func (e *raster) clips(d *DrawData) []image.Rectangle {
	if d.Clip == nil {
		return []image.Rectangle{e.bounds}
	}
	out := make([]image.Rectangle, 0, len(d.Clip))
	for _, c := range d.Clip {
		if c = c.Intersect(e.bounds); !c.Empty() {
			out = append(out, c)
		}
	}
	return out
}

// clipped returns r limited to the union bounds of clips.
func clipped(r image.Rectangle, clips []image.Rectangle) image.Rectangle {
	var u image.Rectangle
	for _, c := range clips {
		u = u.Union(r.Intersect(c))
	}
	return u
}

func inClips(x, y int, clips []image.Rectangle) bool {
	p := image.Pt(x, y)
	for _, c := range clips {
		if p.In(c) {
			return true
		}
	}
	return false
}

// paintRun writes n pixels of d's pattern starting at (x, y) in d's mode.
// The run must lie inside the buffer.
func (e *raster) paintRun(x, y, n int, d *DrawData) {
	switch d.Mode {
	case ModeOver:
		if d.Pattern == color.PatternSolidHigh {
			e.r.PutHorizontalRun(e.buf, x, y, n, d.HighColor)
			return
		}
		for i := 0; i < n; i++ {
			if d.Pattern.IsHighColorAt(x+i, y) {
				e.r.PutPixel(e.buf, x+i, y, d.HighColor)
			}
		}
	case ModeAlpha:
		for i := 0; i < n; i++ {
			e.blendPixel(x+i, y, d.Pattern.ColorAt(x+i, y, d.HighColor, d.LowColor), 255)
		}
	default:
		if c, ok := d.solid(); ok {
			e.r.PutHorizontalRun(e.buf, x, y, n, c)
			return
		}
		e.r.PutPatternRun(e.buf, x, y, n, d.Pattern, d.HighColor, d.LowColor)
	}
}

// blendPixel composites c over the pixel at (x, y) with c's alpha scaled
// by cov. The destination alpha is kept.
func (e *raster) blendPixel(x, y int, c color.Color, cov uint8) {
	a := uint8((int(c.A())*int(cov) + 127) / 255)
	switch a {
	case 0:
		return
	case 255:
		e.r.PutPixel(e.buf, x, y, c)
		return
	}
	dst := e.r.GetPixel(e.buf, x, y)
	out := dst.BlendCoverage(c, a)
	out.SetAlpha(dst.A())
	e.r.PutPixel(e.buf, x, y, out)
}

// hspan paints pixels x0 <= x < x1 of row y inside clips.
func (e *raster) hspan(x0, x1, y int, d *DrawData, clips []image.Rectangle) {
	for _, c := range clips {
		if y < c.Min.Y || y >= c.Max.Y {
			continue
		}
		a, b := max(x0, c.Min.X), min(x1, c.Max.X)
		if a < b {
			e.paintRun(a, y, b-a, d)
		}
	}
}

// plot paints one pixel if it lies inside clips.
func (e *raster) plot(x, y int, d *DrawData, clips []image.Rectangle) {
	if inClips(x, y, clips) {
		e.paintRun(x, y, 1, d)
	}
}

func (e *raster) fillRect(r image.Rectangle, d *DrawData) image.Rectangle {
	clips := e.clips(d)
	r = clipped(r.Canon(), clips)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		e.hspan(r.Min.X, r.Max.X, y, d, clips)
	}
	return r
}

func (e *raster) fillRegion(rs []image.Rectangle, d *DrawData) image.Rectangle {
	var dirty image.Rectangle
	for _, r := range rs {
		dirty = dirty.Union(e.fillRect(r, d))
	}
	return dirty
}

// strokeRect draws the border of r, pen pixels thick, inside r.
func (e *raster) strokeRect(r image.Rectangle, d *DrawData) image.Rectangle {
	r = r.Canon()
	if r.Empty() {
		return image.Rectangle{}
	}
	pen := penWidth(d)
	if 2*pen >= r.Dx() || 2*pen >= r.Dy() {
		return e.fillRect(r, d)
	}
	var dirty image.Rectangle
	for _, side := range [4]image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+pen),
		image.Rect(r.Min.X, r.Max.Y-pen, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+pen, r.Min.X+pen, r.Max.Y-pen),
		image.Rect(r.Max.X-pen, r.Min.Y+pen, r.Max.X, r.Max.Y-pen),
	} {
		dirty = dirty.Union(e.fillRect(side, d))
	}
	return dirty
}

// invertRect inverts r without clipping.
func (e *raster) invertRect(r image.Rectangle) image.Rectangle {
	r = r.Canon().Intersect(e.bounds)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		e.r.InvertRun(e.buf, r.Min.X, y, r.Dx())
	}
	return r
}

func (e *raster) getPixel(x, y int) (color.Color, error) {
	if !image.Pt(x, y).In(e.bounds) {
		return color.Color{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	return e.r.GetPixel(e.buf, x, y), nil
}

// penWidth returns the pen size rounded to whole pixels, at least 1.
func penWidth(d *DrawData) int {
	if p := int(d.PenSize + 0.5); p > 1 {
		return p
	}
	return 1
}
