package http

import (
	"context"
	"time"

	"github.com/fwojciec/pressroom"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 500ms, 1s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{500 * time.Millisecond, 1 * time.Second}
}

// attemptFunc performs one attempt and reports whether a failure may be
// retried.
type attemptFunc func(ctx context.Context) (string, bool, error)

// withRetry runs attempt until it succeeds, fails permanently, or the
// delays are exhausted. It returns the last attempt's error.
func withRetry(ctx context.Context, delays []time.Duration, attempt attemptFunc) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		body, retry, err := attempt(ctx)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retry || i >= maxAttempts-1 {
			break
		}

		// Wait before next attempt
		select {
		case <-ctx.Done():
			return "", pressroom.ClassifyError(ctx.Err(), "fetch")
		case <-time.After(delays[i]):
		}
	}

	return "", lastErr
}
