// Package ratelimit provides a client-side sliding-window request limiter so
// the configured per-minute budget is respected before a request leaves the
// process.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const window = time.Minute

// Limiter tracks request timestamps over a rolling one-minute window.
// Timestamps outside the window are pruned on every check.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	stamps []time.Time
	now    func() time.Time
}

// New creates a limiter allowing perMinute requests per rolling minute.
// A non-positive limit disables limiting.
func New(perMinute int) *Limiter {
	return &Limiter{
		limit: perMinute,
		now:   time.Now,
	}
}

// Allow reserves a slot if one is free and reports whether it did.
func (l *Limiter) Allow() bool {
	if l == nil || l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)

	if len(l.stamps) >= l.limit {
		return false
	}

	l.stamps = append(l.stamps, now)
	return true
}

// Wait blocks until a slot is free or ctx is done. Waiting suspends only the
// calling goroutine.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		if l.Allow() {
			return nil
		}

		timer := time.NewTimer(l.retryAfter())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// retryAfter returns how long until the oldest tracked request leaves the
// window.
func (l *Limiter) retryAfter() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.stamps) == 0 {
		return time.Millisecond
	}

	wait := window - l.now().Sub(l.stamps[0])
	if wait < time.Millisecond {
		wait = time.Millisecond
	}
	return wait
}

func (l *Limiter) pruneLocked(now time.Time) {
	cutoff := now.Add(-window)
	kept := l.stamps[:0]
	for _, stamp := range l.stamps {
		if stamp.After(cutoff) {
			kept = append(kept, stamp)
		}
	}
	l.stamps = kept
}
