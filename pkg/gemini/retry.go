package gemini

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds how often an operation is attempted and how long to wait between attempts.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Retryable   func(err error) bool
	Sleep       func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy makes three attempts with a linear 2s, 4s backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(2 * time.Second),
		Retryable:   NotCanceled,
		Sleep:       sleep,
	}
}

func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// NotCanceled retries everything except a caller cancellation.
func NotCanceled(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// Retry runs op until it succeeds, the policy gives up, or ctx is done.
// attempt starts at 1. The last error is returned on exhaustion.
func Retry[T any](ctx context.Context, p RetryPolicy, op func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T
	var err error
	attempts := max(p.MaxAttempts, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		var v T
		if v, err = op(ctx, attempt); err == nil {
			return v, nil
		}
		if attempt == attempts || (p.Retryable != nil && !p.Retryable(err)) {
			break
		}
		if p.Backoff != nil && p.Sleep != nil {
			if serr := p.Sleep(ctx, p.Backoff(attempt)); serr != nil {
				return zero, serr
			}
		}
	}
	return zero, err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
