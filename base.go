package display

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/buffer"
	"github.com/gogpu/display/color"
	"github.com/gogpu/display/internal/damage"
	"github.com/gogpu/display/text"
)

// core is the state and software drawing path shared by all drivers.
// Exported methods lock mu; methods ending in Locked expect it held.
type core struct {
	mu     sync.Mutex
	opts   driverOptions
	state  State
	mode   accelerant.DisplayMode
	ras    *raster
	damage *damage.Tracker
}

func (c *core) log() *slog.Logger {
	if c.opts.logger != nil {
		return c.opts.logger
	}
	return Logger()
}

func (c *core) defaultFace() text.Face {
	if c.opts.face != nil {
		return c.opts.face
	}
	return text.DefaultBitmapFace()
}

func (c *core) readyLocked() error {
	if c.state != StateInitialized {
		return ErrNotInitialized
	}
	return nil
}

// mappedLocked is readyLocked for calls that touch the frame buffer.
func (c *core) mappedLocked() error {
	if err := c.readyLocked(); err != nil {
		return err
	}
	if c.ras == nil {
		return ErrNoFrameBuffer
	}
	return nil
}

// checkInitLocked reports whether Initialize has work to do.
func (c *core) checkInitLocked() (bool, error) {
	switch c.state {
	case StateInitialized:
		return false, nil
	case StateShutdown:
		return false, fmt.Errorf("%w: driver was shut down", ErrInitFailed)
	}
	return true, nil
}

// attachLocked makes buf the frame buffer for mode. The damage tracker is
// resized and the whole screen invalidated.
func (c *core) attachLocked(buf *buffer.Buffer, mode accelerant.DisplayMode) error {
	ras, err := newRaster(buf, c.defaultFace())
	if err != nil {
		return err
	}
	c.ras = ras
	c.mode = mode
	if c.damage == nil {
		c.damage = damage.New(buf.Width(), buf.Height(), c.opts.tileSize)
		c.damage.InvalidateAll()
	} else {
		c.damage = c.damage.Resize(buf.Width(), buf.Height())
	}
	if c.opts.invalidator != nil {
		c.opts.invalidator.Invalidate(ras.bounds)
	}
	return nil
}

func (c *core) detachLocked() {
	c.ras = nil
	c.mode = accelerant.DisplayMode{}
}

// invalidateLocked reports r as changed.
func (c *core) invalidateLocked(r image.Rectangle) {
	if r.Empty() {
		return
	}
	c.damage.Invalidate(r)
	if c.opts.invalidator != nil {
		c.opts.invalidator.Invalidate(r)
	}
}

// draw runs fn on the raster under the lock and invalidates its result.
func (c *core) draw(fn func(e *raster) image.Rectangle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mappedLocked(); err != nil {
		return err
	}
	c.invalidateLocked(fn(c.ras))
	return nil
}

// State returns the lifecycle state.
func (c *core) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mode returns the active mode.
func (c *core) Mode() accelerant.DisplayMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Bounds returns the screen rectangle.
func (c *core) Bounds() image.Rectangle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ras == nil {
		return image.Rectangle{}
	}
	return c.ras.bounds
}

// Space returns the frame buffer color space.
func (c *core) Space() color.Space {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ras == nil {
		return color.NoSpace
	}
	return c.ras.buf.Space()
}

// FillRect fills r with d's pattern.
func (c *core) FillRect(r image.Rectangle, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.fillRect(r, d) })
}

// FillRegion fills every rectangle of rs.
func (c *core) FillRegion(rs []image.Rectangle, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.fillRegion(rs, d) })
}

// StrokeRect draws the border of r with the pen inside r.
func (c *core) StrokeRect(r image.Rectangle, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.strokeRect(r, d) })
}

// InvertRect inverts the color channels of r.
func (c *core) InvertRect(r image.Rectangle) error {
	return c.draw(func(e *raster) image.Rectangle { return e.invertRect(r) })
}

// StrokeLine draws a line from a to b, both ends included.
func (c *core) StrokeLine(a, b Point, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.strokeLine(a, b, d, e.clips(d)) })
}

// StrokePoint draws a dot of the pen size at p.
func (c *core) StrokePoint(p Point, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.strokePoint(p, d, e.clips(d)) })
}

// StrokeLineArray draws each segment in its own solid color.
func (c *core) StrokeLineArray(lines []LineSegment, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.strokeLines(lines, d) })
}

func (e *raster) strokeLines(lines []LineSegment, d *DrawData) image.Rectangle {
	clips := e.clips(d)
	seg := *d
	seg.Pattern = color.PatternSolidHigh
	var dirty image.Rectangle
	for _, l := range lines {
		seg.HighColor = l.Color
		dirty = dirty.Union(e.strokeLine(l.A, l.B, &seg, clips))
	}
	return dirty
}

// StrokePolygon draws the outline through pts, closing it when closed is
// set.
func (c *core) StrokePolygon(pts []Point, closed bool, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.strokePolyline(pts, closed, d, e.clips(d)) })
}

// FillPolygon fills pts with the even-odd rule.
func (c *core) FillPolygon(pts []Point, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.fillPolygon(pts, d, e.clips(d)) })
}

// FillTriangle fills the triangle pts.
func (c *core) FillTriangle(pts [3]Point, d *DrawData) error {
	return c.FillPolygon(pts[:], d)
}

// StrokeBezier draws the flattened cubic.
func (c *core) StrokeBezier(pts [4]Point, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.strokeBezier(pts, d, e.clips(d)) })
}

// FillBezier fills the area closed by the cubic and its chord.
func (c *core) FillBezier(pts [4]Point, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.fillBezier(pts, d, e.clips(d)) })
}

// StrokeEllipse draws the outline of the ellipse inscribed in r.
func (c *core) StrokeEllipse(r image.Rectangle, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.strokeEllipse(r, d, e.clips(d)) })
}

// FillEllipse fills the ellipse inscribed in r.
func (c *core) FillEllipse(r image.Rectangle, d *DrawData) error {
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.fillEllipse(r, d, e.clips(d)) })
}

// DrawBitmap draws the src part of bmp scaled into dst.
func (c *core) DrawBitmap(bmp *Bitmap, src, dst image.Rectangle, d *DrawData) error {
	if bmp == nil {
		return ErrNilBitmap
	}
	d = d.orDefault()
	return c.draw(func(e *raster) image.Rectangle { return e.drawBitmap(bmp, src, dst, d) })
}

// CopyBits moves the src screen area to dst.
func (c *core) CopyBits(src, dst image.Rectangle) error {
	return c.draw(func(e *raster) image.Rectangle { return e.copyBits(src, dst) })
}

// CopyToBitmap reads the src screen area into bmp at offset at.
func (c *core) CopyToBitmap(bmp *Bitmap, src image.Rectangle, at image.Point) error {
	if bmp == nil {
		return ErrNilBitmap
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mappedLocked(); err != nil {
		return err
	}
	c.ras.copyToBitmap(bmp, src, at)
	return nil
}

// GetPixel reads one screen pixel.
func (c *core) GetPixel(x, y int) (color.Color, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mappedLocked(); err != nil {
		return color.Color{}, err
	}
	return c.ras.getPixel(x, y)
}

// DrawString draws s with its baseline starting at p.
func (c *core) DrawString(s string, p Point, d *DrawData) (Point, error) {
	d = d.orDefault()
	end := p
	err := c.draw(func(e *raster) image.Rectangle {
		var dirty image.Rectangle
		end, dirty = e.drawString(s, p, d)
		return dirty
	})
	return end, err
}

// DrawChar draws a single rune.
func (c *core) DrawChar(r rune, p Point, d *DrawData) (Point, error) {
	return c.DrawString(string(r), p, d)
}

// StringWidth returns the advance of s including escapement.
func (c *core) StringWidth(s string, d *DrawData) (float64, error) {
	d = d.orDefault()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.mappedLocked(); err != nil {
		return 0, err
	}
	return c.ras.stringWidth(s, d), nil
}

// DumpPNG encodes the frame buffer as PNG.
func (c *core) DumpPNG(w io.Writer) error {
	c.mu.Lock()
	if err := c.mappedLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	img := c.ras.buf.ToImage()
	c.mu.Unlock()

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("display: dump png: %w", err)
	}
	return nil
}

// TakeDamage returns and clears the damaged screen areas.
func (c *core) TakeDamage() []image.Rectangle {
	c.mu.Lock()
	t := c.damage
	c.mu.Unlock()
	if t == nil {
		return nil
	}
	return t.Take()
}
