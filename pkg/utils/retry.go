package utils

import (
	"context"
	"time"
)

// RetryOptions controls Retry. Zero values fall back to sensible defaults.
type RetryOptions struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     bool // exponential: delay, 2*delay, 4*delay, ...
}

// Retry runs fn until it succeeds, attempts are exhausted, or ctx is done.
// The last error is returned. Providers never retry themselves; callers
// decide how persistent to be.
func Retry(ctx context.Context, opts RetryOptions, fn func() error) error {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = fn(); lastErr == nil {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		wait := delay
		if opts.Backoff {
			wait = delay << (attempt - 1)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}

	return lastErr
}
