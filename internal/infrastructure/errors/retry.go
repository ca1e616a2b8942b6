package errors

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"
)

var errNotReady = errors.New("not ready")

// RetryLogger defines the interface for logging retry operations
type RetryLogger interface {
	Printf(format string, v ...interface{})
}

// RetryConfig holds configuration for retry logic
type RetryConfig struct {
	MaxAttempts     int           // Maximum number of attempts
	Interval        time.Duration // Delay between attempts
	RetryableErrors []ErrorCode   // Specific error codes to retry
}

// Package-level logger variable that can be set by callers
var retryLogger RetryLogger

// FixedIntervalConfig returns a configuration that makes up to attempts calls
// with a constant delay between them
func FixedIntervalConfig(attempts int, interval time.Duration, codes ...ErrorCode) *RetryConfig {
	if len(codes) == 0 {
		codes = []ErrorCode{ErrCodeUnhealthy}
	}
	return &RetryConfig{
		MaxAttempts:     attempts,
		Interval:        interval,
		RetryableErrors: codes,
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// SetRetryLogger sets the package-level logger for retry operations
func SetRetryLogger(logger RetryLogger) {
	retryLogger = logger
}

// logRetryMessage logs a retry message using the configured logger
func logRetryMessage(format string, v ...interface{}) {
	if retryLogger != nil {
		retryLogger.Printf(format, v...)
	}
}

// retry runs operation until it succeeds, fails with a non-retryable error,
// runs out of attempts, or ctx is done
func retry(ctx context.Context, config *RetryConfig, operation RetryableOperation, operationName string) error {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 0 {
				logRetryMessage("Operation '%s' succeeded after %d attempts", operationName, attempt+1)
			}
			return nil
		}

		lastErr = err

		if !shouldRetry(err, config) {
			logRetryMessage("Operation '%s' failed with non-retryable error: %v", operationName, err)
			return err
		}

		// Don't sleep after the last attempt
		if attempt == config.MaxAttempts-1 {
			break
		}

		logRetryMessage("Operation '%s' failed (attempt %d/%d), retrying in %v: %v",
			operationName, attempt+1, config.MaxAttempts, config.Interval, err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("operation '%s' cancelled during retry: %w", operationName, ctx.Err())
		case <-time.After(config.Interval):
		}
	}

	return fmt.Errorf("operation '%s' failed after %d attempts: %w", operationName, config.MaxAttempts, lastErr)
}

// PollUntil calls check until it reports true, the attempt budget is spent, or
// ctx is done. It returns the number of calls made.
func PollUntil(ctx context.Context, attempts int, interval time.Duration, operationName string, check func() bool) (int, error) {
	made := 0
	err := retry(ctx, FixedIntervalConfig(attempts, interval), func() error {
		made++
		if check() {
			return nil
		}
		return NewShellErrorWithContext(operationName, errNotReady, ErrCodeUnhealthy, map[string]string{
			"attempt": strconv.Itoa(made),
		})
	}, operationName)
	return made, err
}

// shouldRetry determines if an error should be retried based on configuration
func shouldRetry(err error, config *RetryConfig) bool {
	var shellErr *ShellError
	if !errors.As(err, &shellErr) {
		return false
	}

	if !shellErr.IsRetryable() {
		return false
	}

	return slices.Contains(config.RetryableErrors, shellErr.Code)
}
