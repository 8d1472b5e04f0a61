package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

func TestDoRetriesUpToLimit(t *testing.T) {
	var retries []int
	p := New(Config{
		MaxRetries: 2,
		Delay:      time.Millisecond,
		OnRetry:    func(n int, _ error) { retries = append(retries, n) },
	})

	calls := 0
	err := p.Do(context.Background(), func(_ context.Context, attempt int) error {
		assert.Equal(t, calls, attempt)
		calls++
		return errors.ErrNewsUnavailable
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNewsUnavailable))
	assert.Contains(t, err.Error(), "max retries (2) exceeded")
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, p.MaxAttempts())
	assert.Equal(t, []int{1, 2}, retries)
}

func TestDoReturnsFirstSuccess(t *testing.T) {
	p := New(Config{MaxRetries: 2, Delay: time.Millisecond})

	got, err := Do(context.Background(), p, func(_ context.Context, attempt int) (string, error) {
		if attempt < 1 {
			return "", errors.ErrTimeout
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	p := New(Config{
		MaxRetries: 5,
		Delay:      time.Millisecond,
		Retryable:  func(err error) bool { return !errors.Is(err, errors.ErrInvalidInput) },
	})

	calls := 0
	err := p.Do(context.Background(), func(context.Context, int) error {
		calls++
		return errors.ErrInvalidInput
	})

	assert.Equal(t, errors.ErrInvalidInput, err)
	assert.Equal(t, 1, calls)
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(Config{MaxRetries: 3, Delay: time.Hour})

	calls := 0
	err := p.Do(ctx, func(context.Context, int) error {
		calls++
		cancel()
		return errors.ErrTimeout
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)
}

func TestZeroRetriesMeansSingleAttempt(t *testing.T) {
	p := New(Config{MaxRetries: 0})
	calls := 0
	_ = p.Do(context.Background(), func(context.Context, int) error {
		calls++
		return errors.ErrTimeout
	})
	assert.Equal(t, 1, calls)
}

func TestDelayStrategies(t *testing.T) {
	tests := []struct {
		strategy Strategy
		attempt  int
		want     time.Duration
	}{
		{StrategyFixed, 3, time.Second},
		{StrategyLinear, 2, 3 * time.Second},
		{StrategyExponential, 3, 8 * time.Second},
		{StrategyExponential, 10, 10 * time.Second},
	}
	for _, tt := range tests {
		p := New(Config{Delay: time.Second, Strategy: tt.strategy})
		assert.Equal(t, tt.want, p.delay(tt.attempt), "%s attempt %d", tt.strategy, tt.attempt)
	}
}
