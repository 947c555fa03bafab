package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter defines the interface for pacing outgoing requests
type Limiter interface {
	// Wait blocks until the next request may proceed or ctx is done
	Wait(ctx context.Context) error
}

// FixedDelay pauses for the same duration on every Wait.
// It never adapts to server behaviour.
type FixedDelay struct {
	delay time.Duration
}

// NewFixedDelay creates a fixed pause; a non-positive delay makes Wait return immediately
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

// Delay returns the configured pause
func (f *FixedDelay) Delay() time.Duration {
	return f.delay
}

// Wait sleeps for the configured delay
func (f *FixedDelay) Wait(ctx context.Context) error {
	if f.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RequestCeiling caps the request rate of one session with a token bucket
type RequestCeiling struct {
	limiter *rate.Limiter
}

// NewRequestCeiling allows perMinute requests per minute with the given burst.
// It returns nil when perMinute is not positive; a nil ceiling never blocks.
func NewRequestCeiling(perMinute, burst int) *RequestCeiling {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &RequestCeiling{
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst),
	}
}

// Wait blocks until a token is available
func (r *RequestCeiling) Wait(ctx context.Context) error {
	if r == nil {
		return ctx.Err()
	}
	return r.limiter.Wait(ctx)
}

// Allow reports whether a request may proceed now, consuming a token if so
func (r *RequestCeiling) Allow() bool {
	if r == nil {
		return true
	}
	return r.limiter.Allow()
}

// Noop never blocks
type Noop struct{}

func (Noop) Wait(ctx context.Context) error { return ctx.Err() }
