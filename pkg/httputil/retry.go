package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks an error as transient. Only errors wrapped in this
// type cause [Retry] to attempt the operation again; everything else is
// treated as permanent and returned to the caller at once.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times, doubling delay between tries.
// It returns nil as soon as fn succeeds, the first non-retryable error
// unchanged, the last error once attempts are exhausted, or ctx.Err()
// if the context is cancelled while waiting to retry.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for remaining := attempts; remaining > 0; remaining-- {
		if err = fn(); err == nil {
			return nil
		}
		if !errors.As(err, new(*RetryableError)) {
			return err
		}
		if remaining == 1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

// RetryWithBackoff runs [Retry] with the package defaults: 3 attempts
// starting at a 1 second delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}
