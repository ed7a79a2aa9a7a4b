package ingest

import (
	"context"
	"time"

	apperrors "github.com/fer-correa/OSPO-ColabAchievements/internal/errors"
)

// withRetry invokes fn, retrying transient upstream failures (transport
// errors and 5xx responses) with a doubling delay. Client errors and
// anything non-upstream fail immediately.
func withRetry[T any](ctx context.Context, attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var err error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		var result T
		result, err = fn()
		if err == nil {
			return result, nil
		}
		if !apperrors.Retryable(err) {
			return zero, err
		}
	}
	return zero, err
}
