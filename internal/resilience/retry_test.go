package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDoValSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	val, err := DoVal(context.Background(), fastRetryConfig(3), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, NewTransientError(eris.New("rate limited"), 429)
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, val)
	assert.Equal(t, 3, calls)
}

func TestDoValStopsOnPermanentError(t *testing.T) {
	permanent := eris.New("invalid request")
	calls := 0
	_, err := DoVal(context.Background(), fastRetryConfig(5), func(ctx context.Context) (int, error) {
		calls++
		return 0, permanent
	})

	require.Error(t, err)
	assert.True(t, eris.Is(err, permanent))
	assert.Equal(t, 1, calls, "permanent errors must not be retried")
}

func TestDoValExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := DoVal(context.Background(), fastRetryConfig(3), func(ctx context.Context) (int, error) {
		calls++
		return 0, NewTransientError(eris.New("overloaded"), 529)
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoValContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := DoVal(ctx, fastRetryConfig(10), func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, NewTransientError(eris.New("timeout"), 0)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "cancellation must stop retries")
}

func TestDoWrapsDoVal(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastRetryConfig(2), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return NewTransientError(eris.New("flaky"), 503)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithAttempts(t *testing.T) {
	cfg := DefaultRetryConfig().WithAttempts(7)
	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Equal(t, 3, DefaultRetryConfig().WithAttempts(0).MaxAttempts)
}

func TestComputeBackoffCapped(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     4 * time.Second,
		Multiplier:     2.0,
	}

	assert.Equal(t, time.Second, computeBackoff(0, cfg))
	assert.Equal(t, 2*time.Second, computeBackoff(1, cfg))
	assert.Equal(t, 4*time.Second, computeBackoff(2, cfg))
	assert.Equal(t, 4*time.Second, computeBackoff(10, cfg))
}
