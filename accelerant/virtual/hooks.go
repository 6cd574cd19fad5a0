package virtual

import (
	"fmt"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/color"
	"github.com/gogpu/display/internal/render"
)

// Hook returns the card's entry point.
func (c *Card) Hook() accelerant.HookFunc {
	return func(f accelerant.Feature) any {
		c.mu.Lock()
		disabled := c.disabled[f]
		c.mu.Unlock()
		if disabled {
			return nil
		}
		return c.feature(f)
	}
}

func (c *Card) feature(f accelerant.Feature) any {
	switch f {
	case accelerant.InitAccelerant:
		return accelerant.InitFunc(c.initAccelerant)
	case accelerant.UninitAccelerant:
		return accelerant.UninitFunc(c.uninitAccelerant)
	case accelerant.AccelerantSignature:
		return accelerant.SignatureFunc(func() string { return Signature })
	case accelerant.GetDeviceInfo:
		return accelerant.DeviceInfoFunc(c.deviceInfo)
	case accelerant.AccelerantModeCount:
		return accelerant.ModeCountFunc(c.modeCount)
	case accelerant.GetModeList:
		return accelerant.ModeListFunc(c.modeList)
	case accelerant.ProposeDisplayMode:
		return accelerant.ProposeModeFunc(c.proposeMode)
	case accelerant.SetDisplayMode:
		return accelerant.SetModeFunc(c.setDisplayMode)
	case accelerant.GetDisplayMode:
		return accelerant.GetModeFunc(c.getDisplayMode)
	case accelerant.GetFrameBufferConfig:
		return accelerant.FrameBufferConfigFunc(c.frameBufferConfig)
	case accelerant.GetPixelClockLimits:
		return accelerant.PixelClockLimitsFunc(c.pixelClockLimits)
	case accelerant.GetTimingConstraints:
		return accelerant.TimingConstraintsFunc(c.timingConstraints)
	case accelerant.AccelerantRetraceSemaphore:
		return accelerant.RetraceSemaphoreFunc(func() *accelerant.Semaphore { return c.retrace })
	case accelerant.DPMSCapabilities:
		return accelerant.DPMSCapabilitiesFunc(func() accelerant.DPMSState {
			return accelerant.DPMSOn | accelerant.DPMSStandby | accelerant.DPMSSuspend | accelerant.DPMSOff
		})
	case accelerant.DPMSMode:
		return accelerant.DPMSModeFunc(c.dpmsMode)
	case accelerant.SetDPMSMode:
		return accelerant.SetDPMSModeFunc(c.setDPMSMode)
	case accelerant.SetCursorShape:
		return accelerant.SetCursorShapeFunc(c.setCursorShape)
	case accelerant.MoveCursor:
		return accelerant.MoveCursorFunc(c.moveCursor)
	case accelerant.ShowCursor:
		return accelerant.ShowCursorFunc(c.showCursor)
	case accelerant.AcquireEngine:
		return accelerant.AcquireEngineFunc(c.acquireEngine)
	case accelerant.ReleaseEngine:
		return accelerant.ReleaseEngineFunc(c.releaseEngine)
	case accelerant.FillRectangle:
		return accelerant.FillRectangleFunc(c.fillRectangle)
	case accelerant.InvertRectangle:
		return accelerant.InvertRectangleFunc(c.invertRectangle)
	case accelerant.ScreenToScreenBlit:
		return accelerant.ScreenToScreenBlitFunc(c.screenToScreenBlit)
	}
	return nil
}

func (c *Card) initAccelerant(device string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.InitAccelerant)

	if c.initialized {
		return nil
	}
	if len(c.modes) == 0 {
		return fmt.Errorf("virtual: %s: no display modes", device)
	}
	if err := c.setModeLocked(c.modes[0]); err != nil {
		return err
	}
	c.initialized = true
	c.startTickerLocked()
	c.log.Info("virtual: initialized", "device", device, "modes", len(c.modes))
	return nil
}

func (c *Card) uninitAccelerant() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.UninitAccelerant)

	c.stopTickerLocked()
	c.initialized = false
	c.engineHeld = false
}

func (c *Card) deviceInfo(info *accelerant.DeviceInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.GetDeviceInfo)

	*info = accelerant.DeviceInfo{
		Version:  1,
		Name:     c.name,
		Chipset:  Signature,
		Serial:   "0000",
		Memory:   uint32(len(c.mem)),
		DACSpeed: 250,
	}
	return nil
}

func (c *Card) modeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.AccelerantModeCount)
	return len(c.modes)
}

func (c *Card) modeList(dst []accelerant.DisplayMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.GetModeList)

	if len(dst) < len(c.modes) {
		return fmt.Errorf("virtual: mode list needs %d entries, got %d", len(c.modes), len(dst))
	}
	copy(dst, c.modes)
	return nil
}

// proposeMode accepts a target whose space the card scans out and whose
// size fits the largest listed mode, filling in timing when missing and
// clamping the pixel clock into [low, high].
func (c *Card) proposeMode(target, low, high *accelerant.DisplayMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.ProposeDisplayMode)

	if target == nil {
		return accelerant.ErrInvalidMode
	}
	var maxW, maxH uint16
	spaceOK := false
	for _, m := range c.modes {
		maxW, maxH = max(maxW, m.VirtualWidth), max(maxH, m.VirtualHeight)
		if m.Space == target.Space {
			spaceOK = true
		}
	}
	if !spaceOK {
		return fmt.Errorf("%w: color space %v", accelerant.ErrModeRejected, target.Space)
	}
	if target.VirtualWidth == 0 || target.VirtualHeight == 0 ||
		target.VirtualWidth > maxW || target.VirtualHeight > maxH {
		return fmt.Errorf("%w: %dx%d", accelerant.ErrModeRejected, target.VirtualWidth, target.VirtualHeight)
	}
	if low != nil && (target.VirtualWidth < low.VirtualWidth || target.VirtualHeight < low.VirtualHeight) {
		return fmt.Errorf("%w: below lower bound", accelerant.ErrModeRejected)
	}
	if high != nil && high.VirtualWidth != 0 &&
		(target.VirtualWidth > high.VirtualWidth || target.VirtualHeight > high.VirtualHeight) {
		return fmt.Errorf("%w: above upper bound", accelerant.ErrModeRejected)
	}

	if target.Timing.HTotal == 0 || target.Timing.VTotal == 0 {
		fresh := accelerant.NewMode(int(target.VirtualWidth), int(target.VirtualHeight), target.Space, 60)
		target.Timing = fresh.Timing
	}
	clock := target.Timing.PixelClock
	if low != nil && clock < low.Timing.PixelClock {
		clock = low.Timing.PixelClock
	}
	if high != nil && high.Timing.PixelClock != 0 && clock > high.Timing.PixelClock {
		clock = high.Timing.PixelClock
	}
	target.Timing.PixelClock = clock
	return nil
}

func (c *Card) setDisplayMode(m *accelerant.DisplayMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.SetDisplayMode)

	for _, listed := range c.modes {
		if listed.Matches(*m) {
			return c.setModeLocked(*m)
		}
	}
	return fmt.Errorf("%w: %v", accelerant.ErrModeRejected, m)
}

func (c *Card) getDisplayMode(m *accelerant.DisplayMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.GetDisplayMode)

	if c.fb == nil {
		return fmt.Errorf("virtual: no mode set")
	}
	*m = c.mode
	return nil
}

func (c *Card) frameBufferConfig(cfg *accelerant.FrameBufferConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.GetFrameBufferConfig)

	if c.fb == nil {
		return fmt.Errorf("virtual: no mode set")
	}
	*cfg = accelerant.FrameBufferConfig{
		FrameBuffer: c.mem,
		BytesPerRow: c.fb.BytesPerRow(),
		Format:      c.mode.Space.TextureFormat(),
	}
	return nil
}

// pixelClockLimits allows refresh rates between 48 and 120 Hz.
func (c *Card) pixelClockLimits(m *accelerant.DisplayMode) (low, high uint32, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.GetPixelClockLimits)

	total := uint64(m.Timing.HTotal) * uint64(m.Timing.VTotal)
	if total == 0 {
		return 0, 0, fmt.Errorf("%w: missing timing", accelerant.ErrInvalidMode)
	}
	return uint32(total * 48 / 1000), uint32(total * 120 / 1000), nil
}

func (c *Card) timingConstraints(tc *accelerant.TimingConstraints) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.GetTimingConstraints)

	*tc = accelerant.TimingConstraints{
		HRes: 8, HSyncMin: 8, HSyncMax: 512, HBlankMin: 32, HBlankMax: 1024,
		VRes: 1, VSyncMin: 1, VSyncMax: 16, VBlankMin: 3, VBlankMax: 255,
	}
	return nil
}

func (c *Card) dpmsMode() accelerant.DPMSState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.DPMSMode)
	return c.dpms
}

func (c *Card) setDPMSMode(s accelerant.DPMSState) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.SetDPMSMode)

	switch s {
	case accelerant.DPMSOn, accelerant.DPMSStandby, accelerant.DPMSSuspend, accelerant.DPMSOff:
		c.dpms = s
		return nil
	}
	return fmt.Errorf("virtual: invalid power state %#x", uint32(s))
}

func (c *Card) setCursorShape(w, h, hotX, hotY uint16, andMask, xorMask []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.SetCursorShape)

	if w == 0 || h == 0 || w > MaxCursorSize || h > MaxCursorSize {
		return fmt.Errorf("virtual: cursor %dx%d not supported", w, h)
	}
	size := (int(w) + 7) / 8 * int(h)
	if len(andMask) < size || len(xorMask) < size {
		return fmt.Errorf("virtual: cursor masks need %d bytes", size)
	}
	c.cursor.Width, c.cursor.Height = w, h
	c.cursor.HotX, c.cursor.HotY = hotX, hotY
	c.cursor.AndMask = append(c.cursor.AndMask[:0], andMask[:size]...)
	c.cursor.XorMask = append(c.cursor.XorMask[:0], xorMask[:size]...)
	return nil
}

func (c *Card) moveCursor(x, y uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.MoveCursor)
	c.cursor.X, c.cursor.Y = x, y
}

func (c *Card) showCursor(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.ShowCursor)
	c.cursor.Visible = visible
}

func (c *Card) acquireEngine(caps, maxWait uint32, st *accelerant.SyncToken) (accelerant.EngineToken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.AcquireEngine)

	if c.engineBusy || c.engineHeld || !c.initialized {
		return accelerant.EngineToken{}, accelerant.ErrEngineBusy
	}
	c.engineHeld = true
	return accelerant.EngineToken{EngineID: 1, Capabilities: caps}, nil
}

func (c *Card) releaseEngine(et accelerant.EngineToken, st *accelerant.SyncToken) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.ReleaseEngine)

	if !c.engineHeld || et.EngineID != 1 {
		return fmt.Errorf("virtual: engine %d not held", et.EngineID)
	}
	c.engineHeld = false
	c.syncCount++
	if st != nil {
		st.Counter = c.syncCount
		st.EngineID = et.EngineID
	}
	return nil
}

// fillRectangle writes value, already in the frame buffer's native layout,
// over each inclusive rectangle.
func (c *Card) fillRectangle(et accelerant.EngineToken, value uint32, rects []accelerant.FillRectParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.FillRectangle)

	if !c.engineHeld || c.fb == nil {
		return
	}
	space := c.fb.Space()
	bpp := space.BytesPerPixel()
	var px [4]byte
	color.PutNative(space, px[:], value)

	data := c.fb.Data()
	for _, r := range rects {
		x0, y0, x1, y1, ok := c.clampRect(r)
		if !ok {
			continue
		}
		for y := y0; y <= y1; y++ {
			off := c.fb.PixelOffset(x0, y)
			row := data[off : off+(x1-x0+1)*bpp]
			n := copy(row, px[:bpp])
			for n < len(row) {
				n += copy(row[n:], row[:n])
			}
		}
	}
}

func (c *Card) invertRectangle(et accelerant.EngineToken, rects []accelerant.FillRectParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.InvertRectangle)

	if !c.engineHeld || c.fb == nil {
		return
	}
	r, ok := render.For(c.fb.Space())
	if !ok {
		return
	}
	for _, rect := range rects {
		x0, y0, x1, y1, ok := c.clampRect(rect)
		if !ok {
			continue
		}
		for y := y0; y <= y1; y++ {
			r.InvertRun(c.fb, x0, y, x1-x0+1)
		}
	}
}

// screenToScreenBlit copies each region through a scratch row so that
// overlapping source and destination are handled.
func (c *Card) screenToScreenBlit(et accelerant.EngineToken, list []accelerant.BlitParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count(accelerant.ScreenToScreenBlit)

	if !c.engineHeld || c.fb == nil {
		return
	}
	bpp := c.fb.Space().BytesPerPixel()
	fw, fh := c.fb.Width(), c.fb.Height()
	data := c.fb.Data()
	for _, p := range list {
		w := min(int(p.Width), fw-int(p.SrcLeft), fw-int(p.DestLeft))
		h := min(int(p.Height), fh-int(p.SrcTop), fh-int(p.DestTop))
		if w <= 0 || h <= 0 {
			continue
		}
		rows := make([][]byte, h)
		for i := range rows {
			off := c.fb.PixelOffset(int(p.SrcLeft), int(p.SrcTop)+i)
			rows[i] = append([]byte(nil), data[off:off+w*bpp]...)
		}
		for i, row := range rows {
			off := c.fb.PixelOffset(int(p.DestLeft), int(p.DestTop)+i)
			copy(data[off:], row)
		}
	}
}
