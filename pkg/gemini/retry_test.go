package gemini

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	errTransient := errors.New("transient")
	errFatal := errors.New("fatal")

	tests := []struct {
		name         string
		failures     []error
		expectedCall int
		expectedErr  error
	}{
		{"first attempt succeeds", nil, 1, nil},
		{"succeeds on last attempt", []error{errTransient, errTransient}, 3, nil},
		{"exhausted", []error{errTransient, errTransient, errTransient}, 3, errTransient},
		{"not retryable", []error{errFatal}, 1, errFatal},
		{"canceled", []error{context.Canceled}, 1, context.Canceled},
	}

	for _, test := range tests {
		policy := RetryPolicy{
			MaxAttempts: 3,
			Backoff:     LinearBackoff(time.Second),
			Retryable: func(err error) bool {
				return NotCanceled(err) && !errors.Is(err, errFatal)
			},
			Sleep: func(context.Context, time.Duration) error { return nil },
		}

		calls := 0
		v, err := Retry(context.Background(), policy, func(_ context.Context, attempt int) (int, error) {
			calls++
			if attempt != calls {
				t.Errorf("%s: expected attempt %d, got %d", test.name, calls, attempt)
			}
			if attempt <= len(test.failures) {
				return 0, test.failures[attempt-1]
			}
			return 42, nil
		})

		if calls != test.expectedCall {
			t.Errorf("%s: expected %d calls, got %d", test.name, test.expectedCall, calls)
		}
		if !errors.Is(err, test.expectedErr) {
			t.Errorf("%s: expected error %v, got %v", test.name, test.expectedErr, err)
		}
		if err == nil && v != 42 {
			t.Errorf("%s: expected value 42, got %d", test.name, v)
		}
	}
}

func TestRetryStopsWhenSleepIsInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Retry(ctx, RetryPolicy{MaxAttempts: 3, Backoff: LinearBackoff(time.Hour), Sleep: sleep}, func(context.Context, int) (int, error) {
		calls++
		return 0, errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
