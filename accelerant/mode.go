package accelerant

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/display/color"
)

// Timing flags.
const (
	TimingBroadcast     uint32 = 1 << 0
	TimingInterlaced    uint32 = 1 << 1
	TimingHSyncPositive uint32 = 1 << 29
	TimingVSyncPositive uint32 = 1 << 30
	TimingSyncOnGreen   uint32 = 1 << 31
)

// Mode flags.
const (
	ModeHardwareCursor uint32 = 1 << 0
	ModeParallelAccess uint32 = 1 << 1
	ModeDPMS           uint32 = 1 << 2
	ModeScroll         uint32 = 1 << 3
)

// Timing describes the CRT timing of a display mode. PixelClock is in kHz.
type Timing struct {
	PixelClock uint32
	HDisplay   uint16
	HSyncStart uint16
	HSyncEnd   uint16
	HTotal     uint16
	VDisplay   uint16
	VSyncStart uint16
	VSyncEnd   uint16
	VTotal     uint16
	Flags      uint32
}

// DisplayMode is the mode descriptor exchanged with a backend.
type DisplayMode struct {
	Timing        Timing
	Space         color.Space
	VirtualWidth  uint16
	VirtualHeight uint16
	HDisplayStart uint16
	VDisplayStart uint16
	Flags         uint32
}

// NewMode builds a mode with generic blanking for width x height at the
// given refresh rate in Hz.
func NewMode(width, height int, space color.Space, refresh float64) DisplayMode {
	w, h := uint16(width), uint16(height)
	hblank := uint16(width / 4)
	vblank := uint16(height/24 + 3)
	t := Timing{
		HDisplay:   w,
		HSyncStart: w + hblank/4,
		HSyncEnd:   w + hblank/2,
		HTotal:     w + hblank,
		VDisplay:   h,
		VSyncStart: h + 1,
		VSyncEnd:   h + 4,
		VTotal:     h + vblank,
		Flags:      TimingHSyncPositive | TimingVSyncPositive,
	}
	t.PixelClock = uint32(float64(t.HTotal) * float64(t.VTotal) * refresh / 1000)
	return DisplayMode{
		Timing:        t,
		Space:         space,
		VirtualWidth:  w,
		VirtualHeight: h,
		Flags:         ModeParallelAccess,
	}
}

// Width returns the virtual width in pixels.
func (m DisplayMode) Width() int { return int(m.VirtualWidth) }

// Height returns the virtual height in pixels.
func (m DisplayMode) Height() int { return int(m.VirtualHeight) }

// RefreshRate returns the vertical refresh rate in Hz, or 0 when the
// timing is incomplete.
func (m DisplayMode) RefreshRate() float64 {
	total := float64(m.Timing.HTotal) * float64(m.Timing.VTotal)
	if total == 0 {
		return 0
	}
	return float64(m.Timing.PixelClock) * 1000 / total
}

// Matches reports whether m and o describe the same virtual size and color
// space. Timing is not compared.
func (m DisplayMode) Matches(o DisplayMode) bool {
	return m.VirtualWidth == o.VirtualWidth &&
		m.VirtualHeight == o.VirtualHeight &&
		m.Space == o.Space
}

// Validate checks the fields a driver depends on.
func (m DisplayMode) Validate() error {
	if m.VirtualWidth == 0 || m.VirtualHeight == 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidMode, m.VirtualWidth, m.VirtualHeight)
	}
	if !m.Space.CanRasterize() {
		return fmt.Errorf("%w: color space %v", ErrInvalidMode, m.Space)
	}
	return nil
}

// String formats m as WxH SPACE @ RATE.
func (m DisplayMode) String() string {
	return fmt.Sprintf("%dx%d %v @%.1fHz", m.VirtualWidth, m.VirtualHeight, m.Space, m.RefreshRate())
}

// FrameBufferConfig locates the visible frame buffer. BytesPerRow may be
// negative for bottom-up memory.
type FrameBufferConfig struct {
	FrameBuffer []byte
	BytesPerRow int
	Format      gputypes.TextureFormat
}

// TimingConstraints bounds the timing a backend can generate.
type TimingConstraints struct {
	HRes      uint16
	HSyncMin  uint16
	HSyncMax  uint16
	HBlankMin uint16
	HBlankMax uint16
	VRes      uint16
	VSyncMin  uint16
	VSyncMax  uint16
	VBlankMin uint16
	VBlankMax uint16
}

// DeviceInfo identifies the graphics device.
type DeviceInfo struct {
	Version  uint32
	Name     string
	Chipset  string
	Serial   string
	Memory   uint32
	DACSpeed uint32
}

// DPMSState is a set of display power states.
type DPMSState uint32

// Power states.
const (
	DPMSOn      DPMSState = 1 << 0
	DPMSStandby DPMSState = 1 << 1
	DPMSSuspend DPMSState = 1 << 2
	DPMSOff     DPMSState = 1 << 3
)

// EngineToken grants exclusive use of the acceleration engine for the
// duration of one primitive.
type EngineToken struct {
	EngineID     uint32
	Capabilities uint32
	Opaque       any
}

// SyncToken lets a caller wait for engine work queued before release.
type SyncToken struct {
	Counter  uint64
	EngineID uint32
}

// FillRectParams is one rectangle for fill and invert hooks. All four
// edges are inclusive.
type FillRectParams struct {
	Left, Top, Right, Bottom uint16
}

// BlitParams is one screen-to-screen copy. Width and Height are pixel
// counts.
type BlitParams struct {
	SrcLeft, SrcTop   uint16
	DestLeft, DestTop uint16
	Width, Height     uint16
}
