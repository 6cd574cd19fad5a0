package display

import (
	"image"
	"log/slog"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/internal/damage"
	"github.com/gogpu/display/text"
)

// DefaultDevice is the device name passed to a backend's init hook.
const DefaultDevice = "graphics/card0"

// Invalidator receives every rectangle a driver changes.
type Invalidator interface {
	Invalidate(r image.Rectangle)
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(r image.Rectangle)

// Invalidate calls f(r).
func (f InvalidatorFunc) Invalidate(r image.Rectangle) { f(r) }

// Backend is an in-process accelerant. Backends that also implement
// SetLogger(*slog.Logger) receive the driver's logger on Initialize.
type Backend interface {
	Hook() accelerant.HookFunc
}

// DriverOption configures a driver during creation.
//
// Example:
//
//	card := virtual.New()
//	drv := display.NewAccelerantDriver(
//	    display.WithBackend(card),
//	    display.WithLogger(logger),
//	)
type DriverOption func(*driverOptions)

// driverOptions holds optional configuration for driver creation.
type driverOptions struct {
	logger      *slog.Logger
	invalidator Invalidator
	mode        accelerant.DisplayMode
	tileSize    int
	face        text.Face
	device      string

	backend   Backend
	hook      accelerant.HookFunc
	loader    *accelerant.Loader
	signature string
}

// defaultOptions returns the default driver options.
func defaultOptions() driverOptions {
	return driverOptions{
		tileSize: damage.DefaultTileSize,
		device:   DefaultDevice,
	}
}

func newOptions(opts []DriverOption) driverOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets a logger for this driver instead of the package logger.
func WithLogger(l *slog.Logger) DriverOption {
	return func(o *driverOptions) {
		o.logger = l
	}
}

// WithInvalidator forwards every changed rectangle to inv.
func WithInvalidator(inv Invalidator) DriverOption {
	return func(o *driverOptions) {
		o.invalidator = inv
	}
}

// WithMode sets the mode selected by Initialize. The software driver
// defaults to 640x480 RGB32; the accelerant driver defaults to the
// backend's current mode.
func WithMode(m accelerant.DisplayMode) DriverOption {
	return func(o *driverOptions) {
		o.mode = m
	}
}

// WithTileSize sets the damage tracking tile size in pixels.
func WithTileSize(n int) DriverOption {
	return func(o *driverOptions) {
		if n > 0 {
			o.tileSize = n
		}
	}
}

// WithFace sets the face used by text calls whose DrawData has no Font.
func WithFace(f text.Face) DriverOption {
	return func(o *driverOptions) {
		o.face = f
	}
}

// WithDevice sets the device name passed to the backend's init hook.
func WithDevice(name string) DriverOption {
	return func(o *driverOptions) {
		if name != "" {
			o.device = name
		}
	}
}

// WithBackend uses an in-process backend.
func WithBackend(b Backend) DriverOption {
	return func(o *driverOptions) {
		o.backend = b
	}
}

// WithHook uses a backend entry point directly.
func WithHook(h accelerant.HookFunc) DriverOption {
	return func(o *driverOptions) {
		o.hook = h
	}
}

// WithLoader loads the backend called signature from l on Initialize.
func WithLoader(l *accelerant.Loader, signature string) DriverOption {
	return func(o *driverOptions) {
		o.loader = l
		o.signature = signature
	}
}
