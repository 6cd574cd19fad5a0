// Package accelerant defines the hardware acceleration backend ABI.
//
// A backend exposes a single entry point, a HookFunc, which returns the
// function implementing a Feature or nil when the feature is not provided.
// Drivers resolve the hooks they use once into a Table. A missing hook is a
// normal condition: the driver falls back to software rendering.
//
// Every function type in this package is part of the ABI. A backend returns
// values of exactly these types; a hook of any other type is treated as
// missing.
package accelerant

import "fmt"

// Feature names one backend hook.
type Feature uint32

// Hook features.
const (
	InitAccelerant Feature = iota + 1
	UninitAccelerant
	AccelerantSignature
	GetDeviceInfo
	AccelerantModeCount
	GetModeList
	ProposeDisplayMode
	SetDisplayMode
	GetDisplayMode
	GetFrameBufferConfig
	GetPixelClockLimits
	GetTimingConstraints
	AccelerantRetraceSemaphore
	DPMSCapabilities
	DPMSMode
	SetDPMSMode
	SetCursorShape
	MoveCursor
	ShowCursor
	AcquireEngine
	ReleaseEngine
	FillRectangle
	InvertRectangle
	ScreenToScreenBlit

	featureCount
)

var featureNames = [featureCount]string{
	InitAccelerant:             "init-accelerant",
	UninitAccelerant:           "uninit-accelerant",
	AccelerantSignature:        "accelerant-signature",
	GetDeviceInfo:              "get-device-info",
	AccelerantModeCount:        "accelerant-mode-count",
	GetModeList:                "get-mode-list",
	ProposeDisplayMode:         "propose-display-mode",
	SetDisplayMode:             "set-display-mode",
	GetDisplayMode:             "get-display-mode",
	GetFrameBufferConfig:       "get-frame-buffer-config",
	GetPixelClockLimits:        "get-pixel-clock-limits",
	GetTimingConstraints:       "get-timing-constraints",
	AccelerantRetraceSemaphore: "accelerant-retrace-semaphore",
	DPMSCapabilities:           "dpms-capabilities",
	DPMSMode:                   "dpms-mode",
	SetDPMSMode:                "set-dpms-mode",
	SetCursorShape:             "set-cursor-shape",
	MoveCursor:                 "move-cursor",
	ShowCursor:                 "show-cursor",
	AcquireEngine:              "acquire-engine",
	ReleaseEngine:              "release-engine",
	FillRectangle:              "fill-rectangle",
	InvertRectangle:            "invert-rectangle",
	ScreenToScreenBlit:         "screen-to-screen-blit",
}

// Features lists every defined feature in resolution order.
func Features() []Feature {
	fs := make([]Feature, 0, featureCount-1)
	for f := InitAccelerant; f < featureCount; f++ {
		fs = append(fs, f)
	}
	return fs
}

// String returns the hook name.
func (f Feature) String() string {
	if f == 0 || f >= featureCount {
		return fmt.Sprintf("feature(%d)", uint32(f))
	}
	return featureNames[f]
}

// HookFunc is the backend entry point. It returns the function for f, or
// nil when the backend does not implement f.
type HookFunc func(f Feature) any

// Function types returned by a HookFunc, one per Feature.
type (
	InitFunc               func(device string) error
	UninitFunc             func()
	SignatureFunc          func() string
	DeviceInfoFunc         func(info *DeviceInfo) error
	ModeCountFunc          func() int
	ModeListFunc           func(modes []DisplayMode) error
	ProposeModeFunc        func(target *DisplayMode, low, high *DisplayMode) error
	SetModeFunc            func(mode *DisplayMode) error
	GetModeFunc            func(mode *DisplayMode) error
	FrameBufferConfigFunc  func(cfg *FrameBufferConfig) error
	PixelClockLimitsFunc   func(mode *DisplayMode) (low, high uint32, err error)
	TimingConstraintsFunc  func(tc *TimingConstraints) error
	RetraceSemaphoreFunc   func() *Semaphore
	DPMSCapabilitiesFunc   func() DPMSState
	DPMSModeFunc           func() DPMSState
	SetDPMSModeFunc        func(state DPMSState) error
	SetCursorShapeFunc     func(width, height, hotX, hotY uint16, andMask, xorMask []byte) error
	MoveCursorFunc         func(x, y uint16)
	ShowCursorFunc         func(visible bool)
	AcquireEngineFunc      func(caps, maxWait uint32, st *SyncToken) (EngineToken, error)
	ReleaseEngineFunc      func(et EngineToken, st *SyncToken) error
	FillRectangleFunc      func(et EngineToken, color uint32, rects []FillRectParams)
	InvertRectangleFunc    func(et EngineToken, rects []FillRectParams)
	ScreenToScreenBlitFunc func(et EngineToken, list []BlitParams)
)
