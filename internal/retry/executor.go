// Package retry runs operations under bounded exponential backoff, deferring
// retry eligibility to an injected classifier predicate.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultMaxAttempts bounds how many times an operation runs.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the first backoff interval.
	DefaultBaseDelay = 1 * time.Second

	// delayMultiplier doubles the interval between attempts.
	delayMultiplier = 2.0
	// jitterFactor randomizes each interval by up to 30%.
	jitterFactor = 0.3
)

// Executor executes operations with bounded retry. The zero value is not
// usable; construct with New.
type Executor struct {
	maxAttempts int
	baseDelay   time.Duration
	isRetryable func(error) bool
	newBackOff  func() backoff.BackOff
}

// Option customizes an Executor.
type Option func(*Executor)

// WithMaxAttempts overrides the attempt bound.
func WithMaxAttempts(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithBaseDelay overrides the first backoff interval.
func WithBaseDelay(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.baseDelay = d
		}
	}
}

// WithBackOffFactory replaces the backoff construction, letting tests run
// retry schedules without real sleeps.
func WithBackOffFactory(f func() backoff.BackOff) Option {
	return func(e *Executor) {
		e.newBackOff = f
	}
}

// New creates an Executor. isRetryable decides, per failure, whether another
// attempt is worthwhile; a nil predicate retries nothing.
func New(isRetryable func(error) bool, opts ...Option) *Executor {
	e := &Executor{
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		isRetryable: isRetryable,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.newBackOff == nil {
		e.newBackOff = e.defaultBackOff
	}

	return e
}

func (e *Executor) defaultBackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = e.baseDelay
	eb.Multiplier = delayMultiplier
	eb.RandomizationFactor = jitterFactor
	eb.MaxInterval = 1 * time.Minute
	eb.MaxElapsedTime = 0
	return eb
}

// Do runs op until it succeeds, fails non-retryably, or the attempt bound is
// exhausted, in which case the last observed error is returned. Backoff
// sleeps block only the calling goroutine and honor ctx cancellation.
func (e *Executor) Do(ctx context.Context, op func() error) error {
	wrapped := func() error {
		err := op()
		if err == nil {
			return nil
		}
		if e.isRetryable == nil || !e.isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(e.newBackOff(), uint64(e.maxAttempts-1)),
		ctx,
	)

	return backoff.Retry(wrapped, b)
}
