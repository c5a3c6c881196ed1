package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is returned for transport failures against remote backends
// (timeouts, connection errors, 5xx responses).
var ErrNetwork = errors.New("network error")

// Backoff parameters for RetryWithBackoff.
const (
	retryAttempts  = 3
	retryBaseDelay = time.Second
)

// RetryableError marks an error as transient so RetryWithBackoff tries
// again. Anything not wrapped in it is permanent.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as transient. Wrapping nil stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is marked transient anywhere in its
// chain.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// RetryWithBackoff runs fn until it succeeds, returns a permanent error,
// or exhausts the attempt budget, doubling the delay between tries. A
// context cancelled mid-wait aborts with ctx.Err().
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	var err error
	for attempt, delay := 1, retryBaseDelay; ; attempt, delay = attempt+1, delay*2 {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == retryAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
