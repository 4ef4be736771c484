// Package ratelimit implements the client-side sliding-window rate
// limiter for chat sends. Limiters are plain instances owned by whoever
// constructs the webhook client, so tests can run independent limiters.
package ratelimit

import (
	"sync"
	"time"
)

// SlidingWindow allows at most limit events per window. Best-effort and
// in-memory; state is lost on restart.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	marks  []time.Time
	now    func() time.Time
}

// New creates a limiter allowing limit events per window.
func New(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// SetClock overrides the time source (tests).
func (l *SlidingWindow) SetClock(now func() time.Time) { l.now = now }

// Allow records an event if the window has room and reports whether it
// was admitted.
func (l *SlidingWindow) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Drop marks that slid out of the window.
	kept := l.marks[:0]
	for _, m := range l.marks {
		if m.After(cutoff) {
			kept = append(kept, m)
		}
	}
	l.marks = kept

	if len(l.marks) >= l.limit {
		return false
	}
	l.marks = append(l.marks, now)
	return true
}

// Remaining returns how many events the window still admits.
func (l *SlidingWindow) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.window)
	active := 0
	for _, m := range l.marks {
		if m.After(cutoff) {
			active++
		}
	}
	if active >= l.limit {
		return 0
	}
	return l.limit - active
}
