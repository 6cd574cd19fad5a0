package display

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/buffer"
	"github.com/gogpu/display/color"
)

// requiredFeatures are the hooks a backend must provide to be usable.
var requiredFeatures = []accelerant.Feature{
	accelerant.InitAccelerant,
	accelerant.AccelerantModeCount,
	accelerant.GetModeList,
	accelerant.SetDisplayMode,
	accelerant.GetFrameBufferConfig,
}

// AccelerantDriver draws into the frame buffer of an accelerant backend.
//
// The backend's hooks are resolved once on Initialize. Fills, inversions,
// axis-aligned line arrays and screen copies go to the backend's engine
// when it provides the hook and the engine can be acquired; everything
// else, and every call that cannot get the engine, is drawn in software
// into the same mapped frame buffer. Both paths write identical bytes.
type AccelerantDriver struct {
	core

	table *accelerant.Table
	modes []accelerant.DisplayMode
}

// NewAccelerantDriver creates an uninitialized driver. The backend comes
// from WithHook, WithBackend or WithLoader, checked in that order.
func NewAccelerantDriver(opts ...DriverOption) *AccelerantDriver {
	return &AccelerantDriver{core: core{opts: newOptions(opts)}}
}

// Initialize resolves the backend, initializes it and sets the start mode:
// the WithMode mode if given, else the backend's current mode, else the
// first listed mode.
func (a *AccelerantDriver) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if todo, err := a.checkInitLocked(); !todo {
		return err
	}
	hook, err := a.hookLocked()
	if err != nil {
		return err
	}
	t := accelerant.Resolve(hook, a.log())
	for _, f := range requiredFeatures {
		if !t.Supports(f) {
			return fmt.Errorf("%w: backend lacks %v", ErrInitFailed, f)
		}
	}
	if err := t.Init(a.opts.device); err != nil {
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}
	a.table = t

	if err := a.startLocked(); err != nil {
		if t.Uninit != nil {
			t.Uninit()
		}
		a.table = nil
		a.modes = nil
		a.detachLocked()
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}
	a.state = StateInitialized
	a.log().Info("display: accelerant driver initialized",
		"signature", a.signatureLocked(),
		"mode", a.mode.String(),
		"modes", len(a.modes),
		"missing", len(t.Missing()))
	return nil
}

// hookLocked returns the configured backend entry point.
func (a *AccelerantDriver) hookLocked() (accelerant.HookFunc, error) {
	switch {
	case a.opts.hook != nil:
		return a.opts.hook, nil
	case a.opts.backend != nil:
		propagateLogger(a.opts.backend, a.log())
		if h := a.opts.backend.Hook(); h != nil {
			return h, nil
		}
	case a.opts.loader != nil:
		h, err := a.opts.loader.Load(a.opts.signature)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoAccelerant, err)
		}
		return h, nil
	}
	return nil, ErrNoAccelerant
}

func (a *AccelerantDriver) startLocked() error {
	n := a.table.ModeCount()
	if n <= 0 {
		return errors.New("backend lists no modes")
	}
	modes := make([]accelerant.DisplayMode, n)
	if err := a.table.ModeList(modes); err != nil {
		return fmt.Errorf("mode list: %w", err)
	}
	a.modes = modes

	mode := a.opts.mode
	if mode.Width() == 0 && a.table.GetMode != nil {
		if err := a.table.GetMode(&mode); err != nil {
			mode = accelerant.DisplayMode{}
		}
	}
	if mode.Width() == 0 {
		mode = modes[0]
	}
	return a.setModeLocked(mode)
}

func (a *AccelerantDriver) signatureLocked() string {
	if a.table == nil || a.table.Signature == nil {
		return ""
	}
	return a.table.Signature()
}

// Shutdown uninitializes the backend and drops its hooks.
func (a *AccelerantDriver) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateInitialized {
		return ErrNotInitialized
	}
	if a.table.Uninit != nil {
		a.table.Uninit()
	}
	a.table = nil
	a.modes = nil
	a.detachLocked()
	a.state = StateShutdown
	a.log().Info("display: accelerant driver shut down")
	return nil
}

// SetMode switches the backend to mode, which must match a listed mode by
// size and color space, and remaps the frame buffer.
func (a *AccelerantDriver) SetMode(mode accelerant.DisplayMode) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.readyLocked(); err != nil {
		return err
	}
	if err := a.setModeLocked(mode); err != nil {
		return err
	}
	a.log().Info("display: mode set", "mode", a.mode.String())
	return nil
}

func (a *AccelerantDriver) setModeLocked(mode accelerant.DisplayMode) error {
	if err := validateMode(mode); err != nil {
		return err
	}
	i := slices.IndexFunc(a.modes, mode.Matches)
	if i < 0 {
		return fmt.Errorf("%w: %v", ErrModeNotFound, mode)
	}
	if mode.Timing.PixelClock == 0 {
		mode = a.modes[i]
	}
	if err := a.table.SetMode(&mode); err != nil {
		return fmt.Errorf("%w: %w", ErrModeRejected, err)
	}

	// The backend is in the new mode now; the old mapping is stale.
	var cfg accelerant.FrameBufferConfig
	if err := a.table.FrameBufferConfig(&cfg); err != nil {
		a.detachLocked()
		return fmt.Errorf("display: frame buffer config: %w", err)
	}
	buf, err := buffer.New(cfg.FrameBuffer, mode.Width(), mode.Height(), cfg.BytesPerRow, mode.Space)
	if err != nil {
		a.detachLocked()
		return fmt.Errorf("display: map frame buffer: %w", err)
	}
	return a.attachLocked(buf, mode)
}

// withEngineLocked runs fn with the engine held when the backend provides
// f and the engine can be acquired. It reports whether fn ran.
func (a *AccelerantDriver) withEngineLocked(f accelerant.Feature, fn func(et accelerant.EngineToken)) bool {
	if !a.table.HasEngine() || !a.table.Supports(f) {
		return false
	}
	var st accelerant.SyncToken
	et, err := a.table.AcquireEngine(0, 0, &st)
	if err != nil {
		a.log().Debug("display: engine unavailable, drawing in software",
			"feature", f.String(), "err", err)
		return false
	}
	fn(et)
	if err := a.table.ReleaseEngine(et, &st); err != nil {
		a.log().Warn("display: engine release failed", "feature", f.String(), "err", err)
	}
	return true
}

// engineColor returns the color a hardware fill writes for d, or false
// when d cannot be drawn as a solid fill.
func engineColor(d *DrawData) (color.Color, bool) {
	switch d.Mode {
	case ModeCopy:
		return d.solid()
	case ModeOver:
		if d.Pattern == color.PatternSolidHigh {
			return d.HighColor, true
		}
	}
	return color.Color{}, false
}

// fillParams converts rs limited to clips into inclusive engine rectangles.
func fillParams(rs, clips []image.Rectangle) ([]accelerant.FillRectParams, image.Rectangle) {
	var out []accelerant.FillRectParams
	var dirty image.Rectangle
	for _, r := range rs {
		for _, c := range clips {
			x := r.Canon().Intersect(c)
			if x.Empty() {
				continue
			}
			out = append(out, rectParams(x))
			dirty = dirty.Union(x)
		}
	}
	return out, dirty
}

func rectParams(r image.Rectangle) accelerant.FillRectParams {
	return accelerant.FillRectParams{
		Left:   uint16(r.Min.X),
		Top:    uint16(r.Min.Y),
		Right:  uint16(r.Max.X - 1),
		Bottom: uint16(r.Max.Y - 1),
	}
}

// fillLocked fills rs with the engine when possible.
func (a *AccelerantDriver) fillLocked(rs []image.Rectangle, d *DrawData) {
	if c, ok := engineColor(d); ok {
		params, dirty := fillParams(rs, a.ras.clips(d))
		if len(params) == 0 {
			return
		}
		value := color.Native(a.ras.buf.Space(), c)
		if a.withEngineLocked(accelerant.FillRectangle, func(et accelerant.EngineToken) {
			a.table.FillRectangle(et, value, params)
		}) {
			a.invalidateLocked(dirty)
			return
		}
	}
	a.invalidateLocked(a.ras.fillRegion(rs, d))
}

// FillRect fills r, using the engine for solid copies.
func (a *AccelerantDriver) FillRect(r image.Rectangle, d *DrawData) error {
	return a.FillRegion([]image.Rectangle{r}, d)
}

// FillRegion fills every rectangle of rs, using the engine for solid
// copies.
func (a *AccelerantDriver) FillRegion(rs []image.Rectangle, d *DrawData) error {
	d = d.orDefault()
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mappedLocked(); err != nil {
		return err
	}
	a.fillLocked(rs, d)
	return nil
}

// InvertRect inverts r, using the engine when available.
func (a *AccelerantDriver) InvertRect(r image.Rectangle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mappedLocked(); err != nil {
		return err
	}
	r = r.Canon().Intersect(a.ras.bounds)
	if r.Empty() {
		return nil
	}
	if a.withEngineLocked(accelerant.InvertRectangle, func(et accelerant.EngineToken) {
		a.table.InvertRectangle(et, []accelerant.FillRectParams{rectParams(r)})
	}) {
		a.invalidateLocked(r)
		return nil
	}
	a.invalidateLocked(a.ras.invertRect(r))
	return nil
}

// StrokeLineArray draws the segments. When every segment is horizontal or
// vertical and the pen is thin, each is sent to the engine as a fill.
func (a *AccelerantDriver) StrokeLineArray(lines []LineSegment, d *DrawData) error {
	d = d.orDefault()
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mappedLocked(); err != nil {
		return err
	}
	if d.PenSize <= 1 && d.Mode != ModeAlpha && axisAligned(lines) {
		clips := a.ras.clips(d)
		space := a.ras.buf.Space()
		var dirty image.Rectangle
		if a.withEngineLocked(accelerant.FillRectangle, func(et accelerant.EngineToken) {
			for _, l := range lines {
				p, q := l.A.Round(), l.B.Round()
				r := image.Rect(p.X, p.Y, q.X, q.Y).Canon()
				r.Max = r.Max.Add(image.Pt(1, 1))
				params, area := fillParams([]image.Rectangle{r}, clips)
				if len(params) == 0 {
					continue
				}
				a.table.FillRectangle(et, color.Native(space, l.Color), params)
				dirty = dirty.Union(area)
			}
		}) {
			a.invalidateLocked(dirty)
			return nil
		}
	}
	a.invalidateLocked(a.ras.strokeLines(lines, d))
	return nil
}

func axisAligned(lines []LineSegment) bool {
	for _, l := range lines {
		p, q := l.A.Round(), l.B.Round()
		if p.X != q.X && p.Y != q.Y {
			return false
		}
	}
	return true
}

// CopyBits moves the src screen area to dst, using the engine when
// available.
func (a *AccelerantDriver) CopyBits(src, dst image.Rectangle) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.mappedLocked(); err != nil {
		return err
	}
	s, t := copyArea(a.ras.bounds, src, dst)
	if s.Empty() {
		return nil
	}
	if a.withEngineLocked(accelerant.ScreenToScreenBlit, func(et accelerant.EngineToken) {
		a.table.ScreenToScreen(et, []accelerant.BlitParams{{
			SrcLeft:  uint16(s.Min.X),
			SrcTop:   uint16(s.Min.Y),
			DestLeft: uint16(t.Min.X),
			DestTop:  uint16(t.Min.Y),
			Width:    uint16(s.Dx()),
			Height:   uint16(s.Dy()),
		}})
	}) {
		a.invalidateLocked(t)
		return nil
	}
	a.invalidateLocked(a.ras.copyBits(s, t))
	return nil
}

// WaitForRetrace waits for the backend's retrace semaphore. It returns
// ErrUnsupported when the backend has none and ErrTimeout when timeout
// passes first.
func (a *AccelerantDriver) WaitForRetrace(timeout time.Duration) error {
	a.mu.Lock()
	if err := a.readyLocked(); err != nil {
		a.mu.Unlock()
		return err
	}
	var sem *accelerant.Semaphore
	if a.table.RetraceSemaphore != nil {
		sem = a.table.RetraceSemaphore()
	}
	a.mu.Unlock()

	if sem == nil {
		return ErrUnsupported
	}
	if err := sem.AcquireTimeout(timeout); err != nil {
		if errors.Is(err, accelerant.ErrTimeout) {
			return fmt.Errorf("%w: retrace after %v", ErrTimeout, timeout)
		}
		return err
	}
	return nil
}

// Supports reports whether the backend provides f.
func (a *AccelerantDriver) Supports(f accelerant.Feature) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.table != nil && a.table.Supports(f)
}

// Signature returns the backend's signature, or "" when unknown.
func (a *AccelerantDriver) Signature() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.signatureLocked()
}

// ModeList returns a copy of the backend's mode list.
func (a *AccelerantDriver) ModeList() ([]accelerant.DisplayMode, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.readyLocked(); err != nil {
		return nil, err
	}
	return slices.Clone(a.modes), nil
}

// ProposeMode asks the backend to adjust candidate to a mode it supports
// within low and high.
func (a *AccelerantDriver) ProposeMode(candidate *accelerant.DisplayMode, low, high *accelerant.DisplayMode) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.readyLocked(); err != nil {
		return err
	}
	if a.table.ProposeMode == nil {
		return ErrUnsupported
	}
	if err := a.table.ProposeMode(candidate, low, high); err != nil {
		return fmt.Errorf("%w: %w", ErrModeRejected, err)
	}
	return nil
}

// PixelClockLimits returns the pixel clock range in kHz for mode.
func (a *AccelerantDriver) PixelClockLimits(mode accelerant.DisplayMode) (low, high uint32, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.readyLocked(); err != nil {
		return 0, 0, err
	}
	if a.table.PixelClockLimits == nil {
		return 0, 0, ErrUnsupported
	}
	return a.table.PixelClockLimits(&mode)
}

// TimingConstraints returns the backend's timing limits.
func (a *AccelerantDriver) TimingConstraints() (accelerant.TimingConstraints, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var tc accelerant.TimingConstraints
	if err := a.readyLocked(); err != nil {
		return tc, err
	}
	if a.table.TimingConstraints == nil {
		return tc, ErrUnsupported
	}
	err := a.table.TimingConstraints(&tc)
	return tc, err
}

// DeviceInfo describes the graphics device.
func (a *AccelerantDriver) DeviceInfo() (accelerant.DeviceInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var info accelerant.DeviceInfo
	if err := a.readyLocked(); err != nil {
		return info, err
	}
	if a.table.DeviceInfo == nil {
		return info, ErrUnsupported
	}
	err := a.table.DeviceInfo(&info)
	return info, err
}

// DPMSCapabilities returns the supported power states.
func (a *AccelerantDriver) DPMSCapabilities() (accelerant.DPMSState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.readyLocked(); err != nil {
		return 0, err
	}
	if a.table.DPMSCapabilities == nil {
		return 0, ErrUnsupported
	}
	return a.table.DPMSCapabilities(), nil
}

// DPMSMode returns the current power state.
func (a *AccelerantDriver) DPMSMode() (accelerant.DPMSState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.readyLocked(); err != nil {
		return 0, err
	}
	if a.table.DPMSMode == nil {
		return 0, ErrUnsupported
	}
	return a.table.DPMSMode(), nil
}

// SetDPMSMode changes the power state.
func (a *AccelerantDriver) SetDPMSMode(state accelerant.DPMSState) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.readyLocked(); err != nil {
		return err
	}
	if a.table.SetDPMSMode == nil {
		return ErrUnsupported
	}
	return a.table.SetDPMSMode(state)
}

// HasHardwareCursor reports whether the backend draws the cursor.
func (a *AccelerantDriver) HasHardwareCursor() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state == StateInitialized && a.table.HasCursor()
}

// SetCursorShape loads c into the hardware cursor.
func (a *AccelerantDriver) SetCursorShape(c *Cursor) error {
	if c == nil || c.Image == nil {
		return ErrNilBitmap
	}
	and, xor := c.Masks()
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.readyLocked(); err != nil {
		return err
	}
	if !a.table.HasCursor() {
		return ErrUnsupported
	}
	return a.table.SetCursorShape(uint16(c.Image.Width()), uint16(c.Image.Height()),
		uint16(c.Hot.X), uint16(c.Hot.Y), and, xor)
}

// MoveCursor moves the hardware cursor hot spot to (x, y).
func (a *AccelerantDriver) MoveCursor(x, y int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.readyLocked(); err != nil {
		return err
	}
	if !a.table.HasCursor() {
		return ErrUnsupported
	}
	a.table.MoveCursor(uint16(max(x, 0)), uint16(max(y, 0)))
	return nil
}

// ShowCursor shows or hides the hardware cursor.
func (a *AccelerantDriver) ShowCursor(visible bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.readyLocked(); err != nil {
		return err
	}
	if !a.table.HasCursor() {
		return ErrUnsupported
	}
	a.table.ShowCursor(visible)
	return nil
}
