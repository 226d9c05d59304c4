// Package retry backs off between attempts at reaching infrastructure that
// may still be starting. Model calls never go through it.
package retry

import (
	"context"
	"time"
)

// ExponentialBackoff returns delay based on attempt number.
// The delay doubles with each attempt: base * 2^attempt
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	return base * (1 << attempt)
}

// Connect calls dial until it succeeds, attempts run out or ctx ends.
func Connect[T any](ctx context.Context, attempts int, base time.Duration, dial func() (T, error)) (T, error) {
	if attempts <= 0 {
		attempts = 1
	}
	var zero T
	for attempt := 0; ; attempt++ {
		v, err := dial()
		if err == nil {
			return v, nil
		}
		if attempt == attempts-1 {
			return zero, err
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(ExponentialBackoff(attempt, base)):
		}
	}
}
