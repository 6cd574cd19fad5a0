package display

import "errors"

// Sentinel errors returned by drivers.
var (
	// ErrNotInitialized is returned by drawing calls before Initialize or
	// after Shutdown.
	ErrNotInitialized = errors.New("display: driver not initialized")

	// ErrNoAccelerant is returned when no backend entry point is available.
	ErrNoAccelerant = errors.New("display: no accelerant")

	// ErrInitFailed is returned when initialization fails. The driver stays
	// uninitialized.
	ErrInitFailed = errors.New("display: initialization failed")

	// ErrUnsupported is returned for operations the driver cannot perform.
	ErrUnsupported = errors.New("display: operation not supported")

	// ErrTimeout is returned when WaitForRetrace times out.
	ErrTimeout = errors.New("display: timed out")

	// ErrModeNotFound is returned when a mode is not in the mode list.
	ErrModeNotFound = errors.New("display: mode not found")

	// ErrModeRejected is returned when the backend refuses a mode.
	ErrModeRejected = errors.New("display: mode rejected")

	// ErrInvalidMode is returned for malformed modes.
	ErrInvalidMode = errors.New("display: invalid mode")

	// ErrSpaceUnsupported is returned for color spaces that cannot be
	// rasterized.
	ErrSpaceUnsupported = errors.New("display: color space not supported")

	// ErrOutOfBounds is returned for coordinates outside the frame buffer.
	ErrOutOfBounds = errors.New("display: coordinates out of bounds")

	// ErrNoFrameBuffer is returned by drawing calls after a mode switch
	// failed to map the new frame buffer. A successful SetMode maps one
	// again.
	ErrNoFrameBuffer = errors.New("display: no frame buffer mapped")

	// ErrNilBitmap is returned when a bitmap argument is nil.
	ErrNilBitmap = errors.New("display: nil bitmap")
)
