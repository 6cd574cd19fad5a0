package accelerant

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// semaphoreCapacity caps the number of pending signals. Signals beyond it
// are dropped.
const semaphoreCapacity = 1 << 16

// Semaphore is a counting wait primitive. A backend signals it once per
// vertical retrace; waiters consume one signal each.
type Semaphore struct {
	mu   sync.Mutex
	w    *semaphore.Weighted
	held int64 // units not available to waiters
}

// NewSemaphore returns a semaphore with no pending signals.
func NewSemaphore() *Semaphore {
	w := semaphore.NewWeighted(semaphoreCapacity)
	w.TryAcquire(semaphoreCapacity)
	return &Semaphore{w: w, held: semaphoreCapacity}
}

// Release adds n signals.
func (s *Semaphore) Release(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := int64(n)
	if v > s.held {
		v = s.held
	}
	if v <= 0 {
		return
	}
	s.held -= v
	s.w.Release(v)
}

// Acquire consumes one signal, waiting until one is available or ctx is
// done. Context expiry is reported as ErrTimeout when a deadline passed.
func (s *Semaphore) Acquire(ctx context.Context) error {
	if err := s.w.Acquire(ctx, 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return err
	}
	s.mu.Lock()
	s.held++
	s.mu.Unlock()
	return nil
}

// AcquireTimeout consumes one signal, waiting at most timeout. A negative
// timeout waits forever.
func (s *Semaphore) AcquireTimeout(timeout time.Duration) error {
	if timeout < 0 {
		return s.Acquire(context.Background())
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Acquire(ctx)
}

// Pending returns the number of signals not yet consumed.
func (s *Semaphore) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int(semaphoreCapacity - s.held)
}
