package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiter_Allow(t *testing.T) {
	t.Run("allows up to the limit in one window", func(t *testing.T) {
		limiter := New(3)

		now := time.Now()
		limiter.now = func() time.Time { return now }

		require.True(t, limiter.Allow())
		require.True(t, limiter.Allow())
		require.True(t, limiter.Allow())
		require.False(t, limiter.Allow())
	})

	t.Run("slots free up as the window slides", func(t *testing.T) {
		limiter := New(2)

		now := time.Now()
		limiter.now = func() time.Time { return now }

		require.True(t, limiter.Allow())
		require.True(t, limiter.Allow())
		require.False(t, limiter.Allow())

		now = now.Add(window + time.Second)
		require.True(t, limiter.Allow())
	})

	t.Run("non-positive limit disables limiting", func(t *testing.T) {
		limiter := New(0)
		for range 100 {
			require.True(t, limiter.Allow())
		}
	})

	t.Run("nil limiter allows everything", func(t *testing.T) {
		var limiter *Limiter
		require.True(t, limiter.Allow())
		require.NoError(t, limiter.Wait(context.Background()))
	})
}

func TestLimiter_Wait(t *testing.T) {
	t.Run("returns immediately when a slot is free", func(t *testing.T) {
		limiter := New(1)
		require.NoError(t, limiter.Wait(context.Background()))
	})

	t.Run("honors context cancellation while saturated", func(t *testing.T) {
		limiter := New(1)
		require.True(t, limiter.Allow())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := limiter.Wait(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
