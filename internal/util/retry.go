package util //nolint:revive // package name util hosts shared helpers used by transports and the admin CLI

import (
	"context"
	"time"
)

// DefaultRetryStep is the linear backoff increment between attempts.
const DefaultRetryStep = 200 * time.Millisecond

// Retry calls fn up to retries+1 times, sleeping attempt*step between failures.
// It stops early when ctx is done or fn returns a non-retryable error.
func Retry(ctx context.Context, retries int, step time.Duration, retryable func(error) bool, fn func(context.Context) error) error {
	attempts := max(retries, 0) + 1
	if step <= 0 {
		step = DefaultRetryStep
	}

	var lastErr error
	for attempt := range attempts {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if retryable != nil && !retryable(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * step)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
