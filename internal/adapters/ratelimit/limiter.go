package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

// Limiter throttles outbound API calls
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// NewLimiter allows requestsPerMinute with a burst of a tenth of that (at
// least one). A non-positive rate disables limiting.
func NewLimiter(name string, requestsPerMinute int) *Limiter {
	if requestsPerMinute <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1), name: name}
	}

	burst := max(requestsPerMinute/10, 1)
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
		name:    name,
	}
}

// Wait blocks until a request may proceed or ctx is done
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return errors.Wrapf(errors.ErrRateLimitExceeded, "rate limiter %s: %v", l.name, err)
	}
	return nil
}

// Allow reports whether a request may proceed now without blocking
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

func (l *Limiter) Name() string { return l.name }
