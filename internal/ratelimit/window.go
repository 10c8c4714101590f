package ratelimit

import (
	"sync"
	"time"
)

// Window is a sliding-log admission gate. It records the timestamp of every
// admitted request and admits a new one only while fewer than quota of them
// fall inside the trailing window.
//
// A single Window is meant to be shared by every component that calls the AI
// provider, so bursts across features are bounded together.
type Window struct {
	mu       sync.Mutex
	window   time.Duration
	quota    int
	requests []time.Time
	now      func() time.Time
}

type Option func(*Window)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Window) {
		w.now = now
	}
}

func NewWindow(window time.Duration, quota int, opts ...Option) *Window {
	w := &Window{
		window: window,
		quota:  quota,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CanRequest reports whether another request would currently be admitted.
// It does not record anything.
func (w *Window) CanRequest() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(w.now())
	return len(w.requests) < w.quota
}

// AddRequest records a request issued now. Callers must only record requests
// they are actually about to send.
func (w *Window) AddRequest() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.pruneLocked(now)
	w.requests = append(w.requests, now)
}

// TryAcquire checks and records in one step. When the quota is exhausted it
// returns false and the time until the oldest request leaves the window.
func (w *Window) TryAcquire() (bool, time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.pruneLocked(now)
	if len(w.requests) >= w.quota {
		return false, w.waitLocked(now)
	}
	w.requests = append(w.requests, now)
	return true, 0
}

// TimeUntilNextRequest returns 0 while under quota, otherwise the remaining
// time until the oldest admitted request exits the window.
func (w *Window) TimeUntilNextRequest() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.pruneLocked(now)
	return w.waitLocked(now)
}

// Remaining returns how many more requests fit in the current window.
func (w *Window) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(w.now())
	return w.quota - len(w.requests)
}

func (w *Window) waitLocked(now time.Time) time.Duration {
	if len(w.requests) < w.quota {
		return 0
	}
	return w.window - now.Sub(w.requests[0])
}

// pruneLocked drops timestamps that are window or more in the past. The slice
// is kept in admission order so the stale prefix can be cut in one go.
func (w *Window) pruneLocked(now time.Time) {
	i := 0
	for i < len(w.requests) && now.Sub(w.requests[i]) >= w.window {
		i++
	}
	if i > 0 {
		w.requests = append(w.requests[:0], w.requests[i:]...)
	}
}
