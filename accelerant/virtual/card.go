// Package virtual implements an in-memory graphics card behind the
// accelerant hook ABI.
//
// A Card owns a frame buffer in ordinary memory and provides every hook:
// mode negotiation, frame buffer configuration, an acceleration engine with
// fill, invert and blit, a hardware cursor register set, DPMS and a retrace
// semaphore. Options remove hooks or change the memory layout so drivers
// can be exercised against backends with partial capabilities.
package virtual

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/display/accelerant"
	"github.com/gogpu/display/buffer"
	"github.com/gogpu/display/color"
)

// Signature is the name a Card reports and registers under.
const Signature = "virtual"

// MaxCursorSize bounds the hardware cursor in both axes.
const MaxCursorSize = 64

// Option configures a Card.
type Option func(*Card)

// WithModes replaces the default mode list.
func WithModes(modes ...accelerant.DisplayMode) Option {
	return func(c *Card) {
		c.modes = append([]accelerant.DisplayMode(nil), modes...)
	}
}

// WithoutFeatures removes hooks from the card.
func WithoutFeatures(fs ...accelerant.Feature) Option {
	return func(c *Card) {
		for _, f := range fs {
			c.disabled[f] = true
		}
	}
}

// WithBottomUp lays the frame buffer out bottom-up with a negative pitch.
func WithBottomUp() Option {
	return func(c *Card) { c.bottomUp = true }
}

// WithRowPadding adds n unused bytes to the end of every row.
func WithRowPadding(n int) Option {
	return func(c *Card) {
		if n > 0 {
			c.padding = n
		}
	}
}

// WithRetraceInterval signals the retrace semaphore every d once the card
// is initialized. Zero disables the ticker; use Retrace to signal by hand.
func WithRetraceInterval(d time.Duration) Option {
	return func(c *Card) { c.interval = d }
}

// WithDeviceName sets the name reported in DeviceInfo.
func WithDeviceName(name string) Option {
	return func(c *Card) { c.name = name }
}

// WithLogger sets the card's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Card) {
		if l != nil {
			c.log = l
		}
	}
}

// CursorState is a snapshot of the hardware cursor registers.
type CursorState struct {
	Width, Height uint16
	HotX, HotY    uint16
	AndMask       []byte
	XorMask       []byte
	X, Y          uint16
	Visible       bool
}

// Card is a virtual graphics device.
//
// Card is safe for concurrent use.
type Card struct {
	mu  sync.Mutex
	log *slog.Logger

	name     string
	modes    []accelerant.DisplayMode
	disabled map[accelerant.Feature]bool
	bottomUp bool
	padding  int
	interval time.Duration

	initialized bool
	mode        accelerant.DisplayMode
	mem         []byte
	fb          *buffer.Buffer

	retrace *accelerant.Semaphore
	stop    chan struct{}
	done    chan struct{}

	dpms       accelerant.DPMSState
	engineBusy bool
	engineHeld bool
	syncCount  uint64

	cursor CursorState
	calls  map[accelerant.Feature]int
}

// DefaultModes returns 640x480, 800x600 and 1024x768 at 60 Hz in the
// 8, 15, 16 and 32-bit spaces.
func DefaultModes() []accelerant.DisplayMode {
	sizes := [][2]int{{640, 480}, {800, 600}, {1024, 768}}
	spaces := []color.Space{color.CMAP8, color.RGB15, color.RGB16, color.RGB32}
	modes := make([]accelerant.DisplayMode, 0, len(sizes)*len(spaces))
	for _, sz := range sizes {
		for _, s := range spaces {
			modes = append(modes, accelerant.NewMode(sz[0], sz[1], s, 60))
		}
	}
	return modes
}

// New creates a card. The card is inert until the driver calls its
// InitAccelerant hook.
func New(opts ...Option) *Card {
	c := &Card{
		log:      slog.New(slog.DiscardHandler),
		name:     "Virtual Display Adapter",
		modes:    DefaultModes(),
		disabled: make(map[accelerant.Feature]bool),
		retrace:  accelerant.NewSemaphore(),
		dpms:     accelerant.DPMSOn,
		calls:    make(map[accelerant.Feature]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger replaces the card's logger. Drivers propagate their logger
// through this method.
func (c *Card) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	c.mu.Lock()
	c.log = l
	c.mu.Unlock()
}

// Calls returns how many times the hook for f was invoked.
func (c *Card) Calls(f accelerant.Feature) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[f]
}

// SetEngineBusy makes AcquireEngine fail while busy is true.
func (c *Card) SetEngineBusy(busy bool) {
	c.mu.Lock()
	c.engineBusy = busy
	c.mu.Unlock()
}

// Retrace signals one vertical retrace.
func (c *Card) Retrace() {
	c.retrace.Release(1)
}

// Cursor returns a copy of the hardware cursor registers.
func (c *Card) Cursor() CursorState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.cursor
	s.AndMask = append([]byte(nil), s.AndMask...)
	s.XorMask = append([]byte(nil), s.XorMask...)
	return s
}

// Mode returns the current display mode.
func (c *Card) Mode() accelerant.DisplayMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Snapshot copies the visible frame buffer into a top-down buffer. It
// returns nil before a mode is set.
func (c *Card) Snapshot() *buffer.Buffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fb == nil {
		return nil
	}
	return c.fb.Clone()
}

// Close stops the retrace ticker. It is also stopped by UninitAccelerant.
func (c *Card) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTickerLocked()
}

func (c *Card) count(f accelerant.Feature) {
	c.calls[f]++
}

// setModeLocked reallocates the frame buffer for m.
func (c *Card) setModeLocked(m accelerant.DisplayMode) error {
	w, h := m.Width(), m.Height()
	pitch := m.Space.RowBytes(w) + c.padding
	mem := make([]byte, pitch*h)
	if c.bottomUp {
		pitch = -pitch
	}
	fb, err := buffer.New(mem, w, h, pitch, m.Space)
	if err != nil {
		return fmt.Errorf("virtual: %w", err)
	}
	c.mode = m
	c.mem = mem
	c.fb = fb
	c.log.Info("virtual: mode set", "mode", m.String(), "pitch", pitch)
	return nil
}

func (c *Card) startTickerLocked() {
	if c.interval <= 0 || c.stop != nil {
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	c.stop, c.done = stop, done
	go func(d time.Duration) {
		defer close(done)
		t := time.NewTicker(d)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				c.retrace.Release(1)
			case <-stop:
				return
			}
		}
	}(c.interval)
}

func (c *Card) stopTickerLocked() {
	if c.stop == nil {
		return
	}
	close(c.stop)
	<-c.done
	c.stop, c.done = nil, nil
}

// clampRect converts inclusive hook coordinates to a rectangle inside the
// frame buffer. ok is false when nothing remains.
func (c *Card) clampRect(r accelerant.FillRectParams) (x0, y0, x1, y1 int, ok bool) {
	if c.fb == nil {
		return 0, 0, 0, 0, false
	}
	x0, y0 = int(r.Left), int(r.Top)
	x1, y1 = min(int(r.Right), c.fb.Width()-1), min(int(r.Bottom), c.fb.Height()-1)
	return x0, y0, x1, y1, x0 <= x1 && y0 <= y1
}
