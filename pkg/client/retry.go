package client

import (
	"context"
	"errors"
	"time"
)

// retryableError marks a failure worth another attempt: network errors
// and 5xx responses.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func retryable(err error) error { return &retryableError{err: err} }

// retry runs fn up to attempts times, doubling delay after each retryable
// failure. Other errors return at once.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error
	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.As(err, new(*retryableError)) {
			return err
		}
		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	var re *retryableError
	if errors.As(lastErr, &re) {
		return re.err
	}
	return lastErr
}
