package accelerant

import "errors"

var (
	// ErrInvalidMode is returned for a mode a driver cannot use.
	ErrInvalidMode = errors.New("accelerant: invalid display mode")

	// ErrModeRejected is returned by a backend refusing a mode.
	ErrModeRejected = errors.New("accelerant: mode rejected")

	// ErrTimeout is returned when a wait expires.
	ErrTimeout = errors.New("accelerant: timed out")

	// ErrEngineBusy is returned when the acceleration engine cannot be
	// acquired.
	ErrEngineBusy = errors.New("accelerant: engine busy")

	// ErrNotFound is returned when no backend matches a signature.
	ErrNotFound = errors.New("accelerant: backend not found")

	// ErrBadEntryPoint is returned when a plugin exports a symbol of the
	// wrong type.
	ErrBadEntryPoint = errors.New("accelerant: bad entry point")
)
