package retry

import (
	"context"
	"math"
	"time"

	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

// Strategy defines how the delay grows between attempts
type Strategy string

const (
	StrategyFixed       Strategy = "fixed"
	StrategyLinear      Strategy = "linear"
	StrategyExponential Strategy = "exponential"
)

// Config contains retry configuration. MaxRetries counts retries after the
// first attempt, so MaxRetries=2 means at most three calls.
type Config struct {
	MaxRetries int
	Delay      time.Duration
	MaxDelay   time.Duration
	Strategy   Strategy
	Multiplier float64

	// Retryable decides whether an error is worth another attempt.
	// Nil retries every error.
	Retryable func(error) bool

	// OnRetry is called before sleeping ahead of attempt n (1-based retries)
	OnRetry func(attempt int, err error)
}

// DefaultConfig is two retries one second apart
func DefaultConfig() Config {
	return Config{
		MaxRetries: 2,
		Delay:      time.Second,
		MaxDelay:   10 * time.Second,
		Strategy:   StrategyFixed,
		Multiplier: 2.0,
	}
}

// Policy runs functions with bounded retries
type Policy struct {
	config Config
}

// New creates a retry policy, filling zero values from DefaultConfig
func New(config Config) *Policy {
	def := DefaultConfig()
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.Delay < 0 {
		config.Delay = 0
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = def.MaxDelay
	}
	if config.Multiplier <= 0 {
		config.Multiplier = def.Multiplier
	}
	if config.Strategy == "" {
		config.Strategy = StrategyFixed
	}
	return &Policy{config: config}
}

// MaxAttempts is the total number of calls Do may make
func (p *Policy) MaxAttempts() int {
	return p.config.MaxRetries + 1
}

// Do calls fn until it succeeds, the error is not retryable, retries run out
// or ctx is done. attempt starts at 0.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	_, err := Do(ctx, p, func(ctx context.Context, attempt int) (struct{}, error) {
		return struct{}{}, fn(ctx, attempt)
	})
	return err
}

// Do is the generic form of Policy.Do returning fn's result
func Do[T any](ctx context.Context, p *Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, errors.Wrap(ctx.Err(), "retry cancelled")
		}
		if p.config.Retryable != nil && !p.config.Retryable(err) {
			return zero, err
		}
		if attempt == p.config.MaxRetries {
			break
		}

		if p.config.OnRetry != nil {
			p.config.OnRetry(attempt+1, err)
		}

		select {
		case <-ctx.Done():
			return zero, errors.Wrap(ctx.Err(), "retry cancelled")
		case <-time.After(p.delay(attempt)):
		}
	}

	return zero, errors.Wrapf(lastErr, "max retries (%d) exceeded", p.config.MaxRetries)
}

func (p *Policy) delay(attempt int) time.Duration {
	var d time.Duration
	switch p.config.Strategy {
	case StrategyExponential:
		d = time.Duration(float64(p.config.Delay) * math.Pow(p.config.Multiplier, float64(attempt)))
	case StrategyLinear:
		d = p.config.Delay * time.Duration(1+attempt)
	default:
		d = p.config.Delay
	}
	return min(d, p.config.MaxDelay)
}
