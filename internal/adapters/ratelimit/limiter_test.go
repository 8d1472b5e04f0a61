package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

func TestLimiterBurst(t *testing.T) {
	l := NewLimiter("tavily", 60) // burst 6

	allowed := 0
	for i := 0; i < 10; i++ {
		if l.Allow() {
			allowed++
		}
	}
	assert.Equal(t, 6, allowed)
	assert.Equal(t, "tavily", l.Name())
}

func TestLimiterMinimumBurst(t *testing.T) {
	l := NewLimiter("slow", 3)
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestLimiterWaitRespectsContext(t *testing.T) {
	l := NewLimiter("slow", 1)
	assert.True(t, l.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	assert.True(t, errors.Is(err, errors.ErrRateLimitExceeded))
}

func TestLimiterDisabled(t *testing.T) {
	l := NewLimiter("off", 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow())
	}
}
