package display

import (
	"image"
	"math"

	"github.com/gogpu/display/internal/geom"
	"github.com/gogpu/display/text"
)

// faceFor returns the face text calls use with d.
func (e *raster) faceFor(d *DrawData) text.Face {
	if d.Font != nil {
		return d.Font
	}
	return e.face
}

// escapement returns the extra advance after r.
func escapement(r rune, esc Escapement) float64 {
	if r <= 0x20 {
		return esc.Space
	}
	return esc.NonSpace
}

// drawString draws s in visual order with its baseline at p.Y and returns
// the pen position after the last glyph.
func (e *raster) drawString(s string, p Point, d *DrawData) (Point, image.Rectangle) {
	face := e.faceFor(d)
	runes := text.VisualOrder(s)
	pos := text.Layout(face, runes)
	clips := e.clips(d)

	var dirty image.Rectangle
	extra := 0.0
	baseline := geom.Round(p.Y)
	for i, r := range runes {
		g, ok := face.Glyph(r)
		if ok && !g.Empty() {
			pen := image.Pt(int(math.Floor(p.X+pos[i]+extra+0.5)), baseline)
			dirty = dirty.Union(e.drawGlyph(g, pen, d, clips))
		}
		extra += escapement(r, d.Escapement)
	}
	return Pt(p.X+pos[len(runes)]+extra, p.Y), dirty
}

func (e *raster) stringWidth(s string, d *DrawData) float64 {
	runes := []rune(s)
	w := text.Layout(e.faceFor(d), runes)[len(runes)]
	for _, r := range runes {
		w += escapement(r, d.Escapement)
	}
	return w
}

// drawGlyph blits g with its origin at pen.
//
// Mono glyphs write the high color where bits are set. Gray glyphs in copy
// mode write low blended toward high by coverage; over mode blends into
// the frame buffer only for high colors with alpha above 127; alpha mode
// scales coverage by the high color's alpha.
func (e *raster) drawGlyph(g text.Glyph, pen image.Point, d *DrawData, clips []image.Rectangle) image.Rectangle {
	area := g.Bounds.Add(pen)
	dirty := clipped(area, clips)
	if dirty.Empty() {
		return dirty
	}
	high, low := d.HighColor, d.LowColor
	if g.Format == text.FormatGray && d.Mode == ModeOver && high.A() <= 127 {
		return image.Rectangle{}
	}
	opaque := high
	opaque.SetAlpha(255)
	for _, c := range clips {
		r := area.Intersect(c)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			gy := y - area.Min.Y
			for x := r.Min.X; x < r.Max.X; x++ {
				cov := g.Coverage(x-area.Min.X, gy)
				if g.Format == text.FormatMono {
					if cov == 0 {
						continue
					}
					if d.Mode == ModeAlpha {
						e.blendPixel(x, y, high, 255)
					} else {
						e.r.PutPixel(e.buf, x, y, high)
					}
					continue
				}
				switch d.Mode {
				case ModeOver:
					if cov != 0 {
						e.blendPixel(x, y, opaque, cov)
					}
				case ModeAlpha:
					e.blendPixel(x, y, high, cov)
				default:
					e.r.PutPixel(e.buf, x, y, low.BlendCoverage(high, cov))
				}
			}
		}
	}
	return dirty
}
