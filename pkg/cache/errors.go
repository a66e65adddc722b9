package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures to reach a remote backend.
var ErrNetwork = errors.New("network error")

// retryAttempts bounds RetryWithBackoff, counting the first call.
const retryAttempts = 3

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or anything it wraps, is transient.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// RetryWithBackoff calls fn until it succeeds, fails permanently or has run
// three times. Waits start at one second and double.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return retryWithBackoff(ctx, time.Second, fn)
}

func retryWithBackoff(ctx context.Context, delay time.Duration, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
