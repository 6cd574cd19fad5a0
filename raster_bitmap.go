package display

import (
	"image"

	"github.com/gogpu/display/color"
	"github.com/gogpu/display/internal/blit"
)

// drawBitmap draws the src part of bmp into dst, scaling with nearest
// neighbor sampling. src is first limited to the bitmap and dst shrinks in
// proportion.
func (e *raster) drawBitmap(bmp *Bitmap, src, dst image.Rectangle, d *DrawData) image.Rectangle {
	src, dst = src.Canon(), dst.Canon()
	if src.Empty() || dst.Empty() {
		return image.Rectangle{}
	}
	in := src.Intersect(bmp.Bounds())
	if in.Empty() {
		return image.Rectangle{}
	}
	if in != src {
		dst = image.Rect(
			dst.Min.X+(in.Min.X-src.Min.X)*dst.Dx()/src.Dx(),
			dst.Min.Y+(in.Min.Y-src.Min.Y)*dst.Dy()/src.Dy(),
			dst.Min.X+(in.Max.X-src.Min.X)*dst.Dx()/src.Dx(),
			dst.Min.Y+(in.Max.Y-src.Min.Y)*dst.Dy()/src.Dy(),
		)
		src = in
		if dst.Empty() {
			return image.Rectangle{}
		}
	}

	xf := blit.ScaleFactor(src.Dx(), dst.Dx())
	yf := blit.ScaleFactor(src.Dy(), dst.Dy())
	sspace := bmp.Space()
	sbpp, dbpp := sspace.BytesPerPixel(), e.buf.Space().BytesPerPixel()

	var bl blit.Blitter
	fast := d.Mode == ModeCopy && sbpp > 0 && bl.Select(sspace, e.buf.Space())

	clips := e.clips(d)
	var dirty image.Rectangle
	for _, c := range clips {
		area := dst.Intersect(c)
		if area.Empty() {
			continue
		}
		dirty = dirty.Union(area)
		xpos := blit.Fixed(uint64(area.Min.X-dst.Min.X) * uint64(xf))
		for y := area.Min.Y; y < area.Max.Y; y++ {
			sy := src.Min.Y + min(blit.SourceIndex(y-dst.Min.Y, 0, yf), src.Dy()-1)
			srow := bmp.buf.Row(sy)
			if fast {
				drow := e.buf.Row(y)
				bl.Draw(drow[area.Min.X*dbpp:area.Max.X*dbpp],
					srow[src.Min.X*sbpp:src.Max.X*sbpp], area.Dx(), xpos, xf)
				continue
			}
			for x := area.Min.X; x < area.Max.X; x++ {
				sx := src.Min.X + min(blit.SourceIndex(x-area.Min.X, xpos, xf), src.Dx()-1)
				e.putSource(x, y, color.PixelAt(sspace, srow, sx), d.Mode)
			}
		}
	}
	return dirty
}

// putSource writes one bitmap pixel in mode.
func (e *raster) putSource(x, y int, c color.Color, mode DrawMode) {
	switch mode {
	case ModeOver:
		if c.A() > 127 {
			e.r.PutPixel(e.buf, x, y, c)
		}
	case ModeAlpha:
		e.blendPixel(x, y, c, 255)
	default:
		e.r.PutPixel(e.buf, x, y, c)
	}
}

// copyBits moves the src screen area to dst. Both are limited to the
// screen, keeping them the same size.
func (e *raster) copyBits(src, dst image.Rectangle) image.Rectangle {
	src, dst = copyArea(e.bounds, src, dst)
	if src.Empty() {
		return image.Rectangle{}
	}
	off := dst.Min.Sub(src.Min)
	bpp := e.buf.Space().BytesPerPixel()
	n := src.Dx() * bpp

	row := func(y int) {
		s := e.buf.Row(src.Min.Y + y)
		d := e.buf.Row(dst.Min.Y + y)
		copy(d[dst.Min.X*bpp:dst.Min.X*bpp+n], s[src.Min.X*bpp:src.Min.X*bpp+n])
	}
	if off.Y > 0 {
		for y := src.Dy() - 1; y >= 0; y-- {
			row(y)
		}
	} else {
		for y := 0; y < src.Dy(); y++ {
			row(y)
		}
	}
	return dst
}

// copyArea limits a screen-to-screen copy so that both areas lie inside
// bounds and have the same size.
func copyArea(bounds, src, dst image.Rectangle) (image.Rectangle, image.Rectangle) {
	off := dst.Min.Sub(src.Min)
	src = src.Intersect(bounds).Intersect(dst.Sub(off)).Intersect(bounds.Sub(off))
	if src.Empty() {
		return image.Rectangle{}, image.Rectangle{}
	}
	return src, src.Add(off)
}

// copyToBitmap reads the src screen area into bmp with its top left at
// at, converting pixels to the bitmap's space.
func (e *raster) copyToBitmap(bmp *Bitmap, src image.Rectangle, at image.Point) {
	off := at.Sub(src.Min)
	src = src.Intersect(e.bounds).Intersect(bmp.Bounds().Sub(off))
	if src.Empty() {
		return
	}
	dspace := bmp.Space()
	sbpp, dbpp := e.buf.Space().BytesPerPixel(), dspace.BytesPerPixel()

	var bl blit.Blitter
	fast := dbpp > 0 && bl.Select(e.buf.Space(), dspace)
	for y := src.Min.Y; y < src.Max.Y; y++ {
		srow := e.buf.Row(y)
		drow := bmp.buf.Row(y + off.Y)
		if fast {
			dx := src.Min.X + off.X
			bl.Draw(drow[dx*dbpp:(dx+src.Dx())*dbpp],
				srow[src.Min.X*sbpp:src.Max.X*sbpp], src.Dx(), 0, blit.One)
			continue
		}
		for x := src.Min.X; x < src.Max.X; x++ {
			color.SetPixelAt(dspace, drow, x+off.X, e.r.GetPixel(e.buf, x, y))
		}
	}
}
