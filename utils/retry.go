package utils

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRetriesExhausted is returned when every attempt failed with a retryable error
var ErrRetriesExhausted = errors.New("all attempts failed")

// Sleeper blocks for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryLinear calls fn up to maxRetries times, sleeping baseDelay*attempt
// before every attempt (the first one included). Errors for which retryable
// returns false stop the loop immediately and are returned as is.
func RetryLinear(ctx context.Context, maxRetries int, baseDelay time.Duration, sleep Sleeper,
	retryable func(error) bool, fn func(attempt int) error, logger *Logger) error {
	if sleep == nil {
		sleep = SleepContext
	}
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := sleep(ctx, baseDelay*time.Duration(attempt)); err != nil {
			return err
		}
		err := fn(attempt)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err
		logger.Warn("Attempt %d/%d failed: %v", attempt, maxRetries, err)
	}
	return fmt.Errorf("%w (%d attempts), last error: %v", ErrRetriesExhausted, maxRetries, lastErr)
}
