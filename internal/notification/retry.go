package notification

import (
	"context"
	"time"

	"homeserve_backend/platform/logger"
)

const (
	retryAttempts  = 3
	retryBaseDelay = 500 * time.Millisecond
)

// WithRetry runs fn up to retryAttempts times with linear backoff. Delivery
// failures are retried, never propagated into caller transactions. The
// scheduler's sweeps reuse it so one flaky recipient does not force the
// whole sweep to be redelivered.
func WithRetry(ctx context.Context, log *logger.Logger, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
		log.Warn("notification delivery failed", "operation", op, "attempt", attempt, "error", lastErr)

		if attempt < retryAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBaseDelay):
			}
		}
	}
	return lastErr
}
