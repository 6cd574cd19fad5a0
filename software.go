package display

import (
	"fmt"
	"time"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/buffer"
	"github.com/gogpu/display/color"
)

// DefaultMode returns the mode a SoftwareDriver starts in when none is
// configured: 640x480 RGB32 at 60 Hz.
func DefaultMode() accelerant.DisplayMode {
	return accelerant.NewMode(640, 480, color.RGB32, 60)
}

// SoftwareDriver renders into memory it allocates itself. It has no
// backend, so there is no hardware cursor and no retrace.
type SoftwareDriver struct {
	core
}

// NewSoftwareDriver creates an uninitialized software driver.
func NewSoftwareDriver(opts ...DriverOption) *SoftwareDriver {
	return &SoftwareDriver{core: core{opts: newOptions(opts)}}
}

// Initialize allocates the frame buffer in the configured mode.
func (s *SoftwareDriver) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if todo, err := s.checkInitLocked(); !todo {
		return err
	}
	mode := s.opts.mode
	if mode.Width() == 0 {
		mode = DefaultMode()
	}
	if err := s.setModeLocked(mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInitFailed, err)
	}
	s.state = StateInitialized
	s.log().Info("display: software driver initialized", "mode", mode.String())
	return nil
}

// Shutdown frees the frame buffer.
func (s *SoftwareDriver) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInitialized {
		return ErrNotInitialized
	}
	s.detachLocked()
	s.state = StateShutdown
	s.log().Info("display: software driver shut down")
	return nil
}

// SetMode allocates a new frame buffer for mode.
func (s *SoftwareDriver) SetMode(mode accelerant.DisplayMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.readyLocked(); err != nil {
		return err
	}
	if err := s.setModeLocked(mode); err != nil {
		return err
	}
	s.log().Info("display: mode set", "mode", mode.String())
	return nil
}

func (s *SoftwareDriver) setModeLocked(mode accelerant.DisplayMode) error {
	if err := validateMode(mode); err != nil {
		return err
	}
	buf, err := buffer.Alloc(mode.Width(), mode.Height(), mode.Space)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMode, err)
	}
	return s.attachLocked(buf, mode)
}

// WaitForRetrace returns ErrUnsupported.
func (s *SoftwareDriver) WaitForRetrace(time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readyLocked(); err != nil {
		return err
	}
	return ErrUnsupported
}

// validateMode maps mode problems to driver errors.
func validateMode(mode accelerant.DisplayMode) error {
	if mode.Width() > 0 && mode.Height() > 0 && !mode.Space.CanRasterize() {
		return fmt.Errorf("%w: %v", ErrSpaceUnsupported, mode.Space)
	}
	if err := mode.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMode, err)
	}
	return nil
}
