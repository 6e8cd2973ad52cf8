package ratelimiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestRateLimiter_AllowsUpToLimitWithoutWaiting(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, time.Hour)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiter_WaitsForNextSlot(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 50*time.Millisecond)

	require.NoError(t, rl.Wait(context.Background()))
	start := time.Now()
	require.NoError(t, rl.Wait(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestRateLimiter_DeadlineTooShort(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRateLimiter_ContextCancelled(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
}

func TestNewRateLimiter_RefillRate(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(30, time.Minute)

	assert.Equal(t, rate.Every(2*time.Second), rl.limiter.Limit())
	assert.Equal(t, 30, rl.limiter.Burst())
}

func TestRateLimiter_ConcurrentCallers(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(50, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, rl.Wait(context.Background()))
		}()
	}
	wg.Wait()

	assert.Less(t, rl.limiter.Tokens(), 1.0)
}

func TestNewRateLimiter_ClampsLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(0, time.Second)
	assert.Equal(t, 1, rl.limit)
	assert.Equal(t, 1, rl.limiter.Burst())
}
