// Package ratelimit provides named client-side rate limiters for the
// storefront APIs.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with a name used in log output.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a rate limiter allowing requestsPerSecond sustained requests
// with an equal burst size (minimum 1).
func New(name string, requestsPerSecond float64) *Limiter {
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return NewWithBurst(name, requestsPerSecond, burst)
}

// NewWithBurst creates a rate limiter with a custom burst size.
func NewWithBurst(name string, requestsPerSecond float64, burst int) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		name:    name,
	}
}

// Wait blocks until the limiter allows a request or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request can proceed without blocking.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the name of this rate limiter.
func (l *Limiter) Name() string {
	return l.name
}
