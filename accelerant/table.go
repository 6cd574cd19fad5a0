package accelerant

import (
	"log/slog"
	"reflect"
)

// Table holds the resolved hooks of one backend. Nil fields are features
// the backend does not provide.
type Table struct {
	Init              InitFunc
	Uninit            UninitFunc
	Signature         SignatureFunc
	DeviceInfo        DeviceInfoFunc
	ModeCount         ModeCountFunc
	ModeList          ModeListFunc
	ProposeMode       ProposeModeFunc
	SetMode           SetModeFunc
	GetMode           GetModeFunc
	FrameBufferConfig FrameBufferConfigFunc
	PixelClockLimits  PixelClockLimitsFunc
	TimingConstraints TimingConstraintsFunc
	RetraceSemaphore  RetraceSemaphoreFunc
	DPMSCapabilities  DPMSCapabilitiesFunc
	DPMSMode          DPMSModeFunc
	SetDPMSMode       SetDPMSModeFunc
	SetCursorShape    SetCursorShapeFunc
	MoveCursor        MoveCursorFunc
	ShowCursor        ShowCursorFunc
	AcquireEngine     AcquireEngineFunc
	ReleaseEngine     ReleaseEngineFunc
	FillRectangle     FillRectangleFunc
	InvertRectangle   InvertRectangleFunc
	ScreenToScreen    ScreenToScreenBlitFunc
}

// Resolve queries hook for every feature. A hook of the wrong type is
// logged and treated as missing. A nil hook yields an empty table.
func Resolve(hook HookFunc, log *slog.Logger) *Table {
	t := &Table{}
	if hook == nil {
		return t
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := resolver{hook: hook, log: log}

	t.Init = lookup[InitFunc](r, InitAccelerant)
	t.Uninit = lookup[UninitFunc](r, UninitAccelerant)
	t.Signature = lookup[SignatureFunc](r, AccelerantSignature)
	t.DeviceInfo = lookup[DeviceInfoFunc](r, GetDeviceInfo)
	t.ModeCount = lookup[ModeCountFunc](r, AccelerantModeCount)
	t.ModeList = lookup[ModeListFunc](r, GetModeList)
	t.ProposeMode = lookup[ProposeModeFunc](r, ProposeDisplayMode)
	t.SetMode = lookup[SetModeFunc](r, SetDisplayMode)
	t.GetMode = lookup[GetModeFunc](r, GetDisplayMode)
	t.FrameBufferConfig = lookup[FrameBufferConfigFunc](r, GetFrameBufferConfig)
	t.PixelClockLimits = lookup[PixelClockLimitsFunc](r, GetPixelClockLimits)
	t.TimingConstraints = lookup[TimingConstraintsFunc](r, GetTimingConstraints)
	t.RetraceSemaphore = lookup[RetraceSemaphoreFunc](r, AccelerantRetraceSemaphore)
	t.DPMSCapabilities = lookup[DPMSCapabilitiesFunc](r, DPMSCapabilities)
	t.DPMSMode = lookup[DPMSModeFunc](r, DPMSMode)
	t.SetDPMSMode = lookup[SetDPMSModeFunc](r, SetDPMSMode)
	t.SetCursorShape = lookup[SetCursorShapeFunc](r, SetCursorShape)
	t.MoveCursor = lookup[MoveCursorFunc](r, MoveCursor)
	t.ShowCursor = lookup[ShowCursorFunc](r, ShowCursor)
	t.AcquireEngine = lookup[AcquireEngineFunc](r, AcquireEngine)
	t.ReleaseEngine = lookup[ReleaseEngineFunc](r, ReleaseEngine)
	t.FillRectangle = lookup[FillRectangleFunc](r, FillRectangle)
	t.InvertRectangle = lookup[InvertRectangleFunc](r, InvertRectangle)
	t.ScreenToScreen = lookup[ScreenToScreenBlitFunc](r, ScreenToScreenBlit)
	return t
}

type resolver struct {
	hook HookFunc
	log  *slog.Logger
}

// lookup fetches one hook. Unnamed function values with the right
// signature are converted to the named type.
func lookup[T any](r resolver, f Feature) T {
	var zero T
	v := r.hook(f)
	if v == nil {
		return zero
	}
	if fn, ok := v.(T); ok {
		return fn
	}
	want := reflect.TypeFor[T]()
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func && rv.Type().ConvertibleTo(want) {
		if rv.IsNil() {
			return zero
		}
		return rv.Convert(want).Interface().(T)
	}
	r.log.Warn("accelerant: hook has wrong type, ignoring",
		"feature", f.String(),
		"got", rv.Type().String(),
		"want", want.String())
	return zero
}

// Supports reports whether the hook for f was resolved.
func (t *Table) Supports(f Feature) bool {
	switch f {
	case InitAccelerant:
		return t.Init != nil
	case UninitAccelerant:
		return t.Uninit != nil
	case AccelerantSignature:
		return t.Signature != nil
	case GetDeviceInfo:
		return t.DeviceInfo != nil
	case AccelerantModeCount:
		return t.ModeCount != nil
	case GetModeList:
		return t.ModeList != nil
	case ProposeDisplayMode:
		return t.ProposeMode != nil
	case SetDisplayMode:
		return t.SetMode != nil
	case GetDisplayMode:
		return t.GetMode != nil
	case GetFrameBufferConfig:
		return t.FrameBufferConfig != nil
	case GetPixelClockLimits:
		return t.PixelClockLimits != nil
	case GetTimingConstraints:
		return t.TimingConstraints != nil
	case AccelerantRetraceSemaphore:
		return t.RetraceSemaphore != nil
	case DPMSCapabilities:
		return t.DPMSCapabilities != nil
	case DPMSMode:
		return t.DPMSMode != nil
	case SetDPMSMode:
		return t.SetDPMSMode != nil
	case SetCursorShape:
		return t.SetCursorShape != nil
	case MoveCursor:
		return t.MoveCursor != nil
	case ShowCursor:
		return t.ShowCursor != nil
	case AcquireEngine:
		return t.AcquireEngine != nil
	case ReleaseEngine:
		return t.ReleaseEngine != nil
	case FillRectangle:
		return t.FillRectangle != nil
	case InvertRectangle:
		return t.InvertRectangle != nil
	case ScreenToScreenBlit:
		return t.ScreenToScreen != nil
	}
	return false
}

// HasCursor reports whether all hardware cursor hooks are present.
func (t *Table) HasCursor() bool {
	return t.SetCursorShape != nil && t.MoveCursor != nil && t.ShowCursor != nil
}

// HasEngine reports whether the engine can be acquired and released.
func (t *Table) HasEngine() bool {
	return t.AcquireEngine != nil && t.ReleaseEngine != nil
}

// Missing lists the features the table does not provide.
func (t *Table) Missing() []Feature {
	var out []Feature
	for _, f := range Features() {
		if !t.Supports(f) {
			out = append(out, f)
		}
	}
	return out
}
