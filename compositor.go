package display

import (
	"image"
	"io"
	"sync"
	"time"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/color"
	"github.com/gogpu/display/internal/geom"
)

// CompositorOption configures a Compositor.
type CompositorOption func(*Compositor)

// WithCursor sets the initial cursor image. The default is DefaultCursor.
func WithCursor(cur *Cursor) CompositorOption {
	return func(c *Compositor) {
		if cur != nil && cur.Image != nil {
			c.cursor = cur
		}
	}
}

// WithSoftwareCursor composites the cursor in software even when the
// driver has a hardware cursor.
func WithSoftwareCursor() CompositorOption {
	return func(c *Compositor) {
		c.softwareOnly = true
	}
}

// Compositor draws a cursor over a Driver's frame buffer and keeps it
// intact across drawing calls. It implements Driver itself.
//
// The cursor is shown when the hide level is 0, it is not obscured and
// the host has not hidden it. HideCursor and ShowCursor nest. Obscuring
// removes the cursor until the next move.
//
// Every drawing call whose area may touch the cursor first restores the
// pixels under it and composites it again afterwards, so reading the
// screen always returns the composited cursor over the drawn content.
//
// The compositor lock is always taken before the driver's.
type Compositor struct {
	mu  sync.Mutex
	drv Driver

	hw           HardwareCursor
	softwareOnly bool

	cursor       *Cursor
	pos          image.Point
	level        int
	obscured     bool
	driverHidden bool

	started  bool
	onScreen bool
	drawn    image.Rectangle // screen area covered while onScreen
	save     *Bitmap         // pixels under drawn, at (0, 0)
}

// NewCompositor wraps drv. The cursor starts shown at (0, 0).
func NewCompositor(drv Driver, opts ...CompositorOption) *Compositor {
	c := &Compositor{drv: drv, cursor: DefaultCursor()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Driver returns the wrapped driver.
func (c *Compositor) Driver() Driver { return c.drv }

func (c *Compositor) visibleLocked() bool {
	return c.level == 0 && !c.obscured && !c.driverHidden
}

// removeLocked restores the pixels under the software cursor.
func (c *Compositor) removeLocked() error {
	if !c.onScreen {
		return nil
	}
	c.onScreen = false
	src := image.Rect(0, 0, c.drawn.Dx(), c.drawn.Dy())
	return c.drv.DrawBitmap(c.save, src, c.drawn, &DrawData{Mode: ModeCopy, PenSize: 1})
}

// drawLocked saves the pixels under the cursor and composites it.
func (c *Compositor) drawLocked() error {
	if c.onScreen || c.hw != nil || !c.visibleLocked() {
		return nil
	}
	area := c.cursor.Bounds(c.pos)
	fp := area.Intersect(c.drv.Bounds())
	if fp.Empty() {
		return nil
	}
	if err := c.ensureSaveLocked(); err != nil {
		return err
	}
	if err := c.drv.CopyToBitmap(c.save, fp, image.Point{}); err != nil {
		return err
	}
	src := fp.Sub(area.Min)
	if err := c.drv.DrawBitmap(c.cursor.Image, src, fp, &DrawData{Mode: ModeAlpha, PenSize: 1}); err != nil {
		return err
	}
	c.onScreen = true
	c.drawn = fp
	return nil
}

// ensureSaveLocked sizes the save buffer for the cursor in the screen's
// color space.
func (c *Compositor) ensureSaveLocked() error {
	w, h := c.cursor.Image.Width(), c.cursor.Image.Height()
	space := c.drv.Space()
	if c.save != nil && c.save.Width() >= w && c.save.Height() >= h && c.save.Space() == space {
		return nil
	}
	save, err := NewBitmap(w, h, space)
	if err != nil {
		return err
	}
	c.save = save
	return nil
}

// syncHardwareLocked picks the hardware cursor when the driver has one
// that accepts the current image.
func (c *Compositor) syncHardwareLocked() error {
	c.hw = nil
	if c.softwareOnly {
		return c.drawLocked()
	}
	hw, ok := c.drv.(HardwareCursor)
	if !ok || !hw.HasHardwareCursor() {
		return c.drawLocked()
	}
	if err := hw.SetCursorShape(c.cursor); err != nil {
		Logger().Debug("display: hardware cursor rejected shape, compositing in software", "err", err)
		return c.drawLocked()
	}
	if err := c.removeLocked(); err != nil {
		return err
	}
	c.hw = hw
	if err := hw.MoveCursor(c.pos.X, c.pos.Y); err != nil {
		return err
	}
	return hw.ShowCursor(c.visibleLocked())
}

// refreshLocked brings the screen in line with the visibility state.
func (c *Compositor) refreshLocked() error {
	if c.hw != nil {
		return c.hw.ShowCursor(c.visibleLocked())
	}
	if c.visibleLocked() {
		return c.drawLocked()
	}
	return c.removeLocked()
}

// SetCursor replaces the cursor image.
func (c *Compositor) SetCursor(cur *Cursor) error {
	if cur == nil || cur.Image == nil {
		return ErrNilBitmap
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.removeLocked(); err != nil {
		return err
	}
	c.cursor = cur
	c.save = nil
	if c.drv.State() != StateInitialized {
		return nil
	}
	return c.syncHardwareLocked()
}

// Cursor returns the current cursor.
func (c *Compositor) Cursor() *Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// HideCursor raises the hide level. Hiding an obscured cursor consumes
// the obscured state instead and leaves the cursor shown, composited at
// its current position.
func (c *Compositor) HideCursor() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.obscured {
		c.obscured = false
		return c.refreshLocked()
	}
	c.level++
	if c.level == 1 {
		return c.refreshLocked()
	}
	return nil
}

// ShowCursor lowers the hide level and shows the cursor when it reaches 0.
func (c *Compositor) ShowCursor() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.level == 0 {
		return nil
	}
	c.level--
	if c.level == 0 {
		return c.refreshLocked()
	}
	return nil
}

// ObscureCursor removes the cursor until it next moves. Any hide level is
// dropped.
func (c *Compositor) ObscureCursor() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.obscured {
		return nil
	}
	if c.level > 0 {
		c.level = 0
		c.obscured = true
		return nil
	}
	c.obscured = true
	return c.refreshLocked()
}

// MoveCursorTo moves the hot spot to p. Points outside the screen are
// ignored.
func (c *Compositor) MoveCursorTo(p image.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !p.In(c.drv.Bounds()) {
		return nil
	}
	c.obscured = false
	if c.hw != nil {
		c.pos = p
		if err := c.hw.MoveCursor(p.X, p.Y); err != nil {
			return err
		}
		return c.hw.ShowCursor(c.visibleLocked())
	}
	if err := c.removeLocked(); err != nil {
		return err
	}
	c.pos = p
	return c.drawLocked()
}

// SetDriverHidden hides or shows the cursor independently of the hide
// level.
func (c *Compositor) SetDriverHidden(hidden bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.driverHidden == hidden {
		return nil
	}
	c.driverHidden = hidden
	return c.refreshLocked()
}

// CursorPosition returns the hot spot position.
func (c *Compositor) CursorPosition() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

// IsCursorHidden reports whether the hide level is positive or the host
// hid the cursor.
func (c *Compositor) IsCursorHidden() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.level > 0 || c.driverHidden
}

// IsCursorObscured reports whether the cursor is obscured.
func (c *Compositor) IsCursorObscured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.obscured
}

// Footprint returns the screen area the software cursor covers, or the
// empty rectangle when it is not drawn.
func (c *Compositor) Footprint() image.Rectangle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.onScreen {
		return image.Rectangle{}
	}
	return c.drawn
}

// HardwareCursorActive reports whether the backend draws the cursor.
func (c *Compositor) HardwareCursorActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hw != nil
}

// around runs fn with the cursor lifted when area overlaps it.
func (c *Compositor) around(area image.Rectangle, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	lifted := false
	if c.onScreen && area.Overlaps(c.drawn) {
		if err := c.removeLocked(); err != nil {
			return err
		}
		lifted = true
	}
	err := fn()
	if lifted {
		if derr := c.drawLocked(); err == nil {
			err = derr
		}
	}
	return err
}

// pointsArea returns the pixels a stroke through pts may touch.
func pointsArea(d *DrawData, pts ...Point) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	grow := 1
	if d != nil {
		grow = int(d.PenSize) + 1
	}
	return geom.Bounds(pts).PixelBounds().Inset(-grow)
}

// Initialize initializes the driver and shows the cursor. Calling it on an
// initialized display does nothing.
func (c *Compositor) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return nil
	}
	if err := c.drv.Initialize(); err != nil {
		return err
	}
	c.started = true
	c.onScreen = false
	return c.syncHardwareLocked()
}

// Shutdown removes the cursor and shuts the driver down.
func (c *Compositor) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hw != nil {
		_ = c.hw.ShowCursor(false)
		c.hw = nil
	}
	if err := c.removeLocked(); err != nil {
		c.onScreen = false
	}
	c.save = nil
	c.started = false
	return c.drv.Shutdown()
}

// State returns the driver state.
func (c *Compositor) State() State { return c.drv.State() }

// SetMode switches modes and composites the cursor into the new frame
// buffer.
func (c *Compositor) SetMode(mode accelerant.DisplayMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.removeLocked(); err != nil {
		return err
	}
	if err := c.drv.SetMode(mode); err != nil {
		_ = c.refreshLocked()
		return err
	}
	c.save = nil
	if !c.pos.In(c.drv.Bounds()) {
		c.pos = image.Point{}
	}
	return c.syncHardwareLocked()
}

// Mode returns the active mode.
func (c *Compositor) Mode() accelerant.DisplayMode { return c.drv.Mode() }

// Bounds returns the screen rectangle.
func (c *Compositor) Bounds() image.Rectangle { return c.drv.Bounds() }

// Space returns the frame buffer color space.
func (c *Compositor) Space() color.Space { return c.drv.Space() }

func (c *Compositor) FillRect(r image.Rectangle, d *DrawData) error {
	return c.around(r, func() error { return c.drv.FillRect(r, d) })
}

func (c *Compositor) FillRegion(rs []image.Rectangle, d *DrawData) error {
	var area image.Rectangle
	for _, r := range rs {
		area = area.Union(r.Canon())
	}
	return c.around(area, func() error { return c.drv.FillRegion(rs, d) })
}

func (c *Compositor) StrokeRect(r image.Rectangle, d *DrawData) error {
	return c.around(r, func() error { return c.drv.StrokeRect(r, d) })
}

func (c *Compositor) InvertRect(r image.Rectangle) error {
	return c.around(r, func() error { return c.drv.InvertRect(r) })
}

func (c *Compositor) StrokeLine(a, b Point, d *DrawData) error {
	return c.around(pointsArea(d, a, b), func() error { return c.drv.StrokeLine(a, b, d) })
}

func (c *Compositor) StrokePoint(p Point, d *DrawData) error {
	return c.around(pointsArea(d, p), func() error { return c.drv.StrokePoint(p, d) })
}

func (c *Compositor) StrokeLineArray(lines []LineSegment, d *DrawData) error {
	pts := make([]Point, 0, 2*len(lines))
	for _, l := range lines {
		pts = append(pts, l.A, l.B)
	}
	return c.around(pointsArea(d, pts...), func() error { return c.drv.StrokeLineArray(lines, d) })
}

func (c *Compositor) StrokePolygon(pts []Point, closed bool, d *DrawData) error {
	return c.around(pointsArea(d, pts...), func() error { return c.drv.StrokePolygon(pts, closed, d) })
}

func (c *Compositor) FillPolygon(pts []Point, d *DrawData) error {
	return c.around(pointsArea(d, pts...), func() error { return c.drv.FillPolygon(pts, d) })
}

func (c *Compositor) FillTriangle(pts [3]Point, d *DrawData) error {
	return c.around(pointsArea(d, pts[:]...), func() error { return c.drv.FillTriangle(pts, d) })
}

func (c *Compositor) StrokeBezier(pts [4]Point, d *DrawData) error {
	return c.around(pointsArea(d, pts[:]...), func() error { return c.drv.StrokeBezier(pts, d) })
}

func (c *Compositor) FillBezier(pts [4]Point, d *DrawData) error {
	return c.around(pointsArea(d, pts[:]...), func() error { return c.drv.FillBezier(pts, d) })
}

func (c *Compositor) StrokeEllipse(r image.Rectangle, d *DrawData) error {
	return c.around(r, func() error { return c.drv.StrokeEllipse(r, d) })
}

func (c *Compositor) FillEllipse(r image.Rectangle, d *DrawData) error {
	return c.around(r, func() error { return c.drv.FillEllipse(r, d) })
}

func (c *Compositor) DrawBitmap(bmp *Bitmap, src, dst image.Rectangle, d *DrawData) error {
	return c.around(dst.Canon(), func() error { return c.drv.DrawBitmap(bmp, src, dst, d) })
}

func (c *Compositor) CopyBits(src, dst image.Rectangle) error {
	return c.around(src.Union(dst), func() error { return c.drv.CopyBits(src, dst) })
}

// CopyToBitmap reads the screen including the composited cursor.
func (c *Compositor) CopyToBitmap(bmp *Bitmap, src image.Rectangle, at image.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drv.CopyToBitmap(bmp, src, at)
}

// GetPixel reads the screen including the composited cursor.
func (c *Compositor) GetPixel(x, y int) (color.Color, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drv.GetPixel(x, y)
}

// DrawString lifts the cursor for any text call, since glyph extents are
// only known while drawing.
func (c *Compositor) DrawString(s string, p Point, d *DrawData) (Point, error) {
	var end Point
	err := c.around(c.drv.Bounds(), func() error {
		var err error
		end, err = c.drv.DrawString(s, p, d)
		return err
	})
	return end, err
}

func (c *Compositor) DrawChar(r rune, p Point, d *DrawData) (Point, error) {
	return c.DrawString(string(r), p, d)
}

func (c *Compositor) StringWidth(s string, d *DrawData) (float64, error) {
	return c.drv.StringWidth(s, d)
}

// WaitForRetrace waits on the driver without holding the compositor lock.
func (c *Compositor) WaitForRetrace(timeout time.Duration) error {
	return c.drv.WaitForRetrace(timeout)
}

// DumpPNG encodes the screen including the composited cursor.
func (c *Compositor) DumpPNG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drv.DumpPNG(w)
}

// TakeDamage forwards to the driver when it tracks damage.
func (c *Compositor) TakeDamage() []image.Rectangle {
	if ds, ok := c.drv.(DamageSource); ok {
		return ds.TakeDamage()
	}
	return nil
}
