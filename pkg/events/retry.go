package events

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"time"
)

// DefaultRetryDelay is the first pause between publish attempts. It doubles
// after each failure.
const DefaultRetryDelay = 100 * time.Millisecond

// RetryableError marks a publish failure worth another attempt, such as a
// dropped or refused connection.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// retry runs fn up to attempts times with exponential backoff. Only errors
// wrapped in [RetryableError] are retried; ctx cancellation ends the wait.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		lastErr = fn()
		if lastErr == nil || !isRetryable(lastErr) {
			return lastErr
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
	return lastErr
}

func isRetryable(err error) bool {
	return stderrors.As(err, new(*RetryableError))
}

// transient reports whether err looks like a connection problem rather than
// a Redis reply error.
func transient(err error) bool {
	var netErr net.Error
	return stderrors.As(err, &netErr) || stderrors.Is(err, io.EOF)
}
