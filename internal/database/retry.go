package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/tabula/internal/driver"
)

// RetryPolicy is a bounded retry with a fixed delay. There is no backoff
// and no jitter.
type RetryPolicy struct {
	// Attempts is the total number of executions, including the first.
	Attempts int

	// Delay is the pause between attempts.
	Delay time.Duration
}

// DefaultRetryPolicy is five attempts 100ms apart.
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, Delay: 100 * time.Millisecond}

// Validate checks the policy bounds.
func (p RetryPolicy) Validate() error {
	if p.Attempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", p.Attempts)
	}
	if p.Delay < 0 {
		return fmt.Errorf("retry delay must not be negative, got %s", p.Delay)
	}
	return nil
}

// RetryObserver is told about every failed attempt that will be retried.
type RetryObserver func(attempt int, err error)

// ErrRetryExhausted matches every RetryExhaustedError via errors.Is.
var ErrRetryExhausted = errors.New("retry attempts exhausted")

// RetryExhaustedError is returned when every attempt failed.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("write failed after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap returns the error of the last attempt.
func (e *RetryExhaustedError) Unwrap() error {
	return e.Last
}

// Is reports whether target is ErrRetryExhausted.
func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// sleeper waits d or until ctx is done.
type sleeper func(ctx context.Context, d time.Duration) error

// retry runs fn until it succeeds or fails with something other than a
// KindExec error, or the attempts run out.
func retry(ctx context.Context, p RetryPolicy, fn func() error, observe RetryObserver, sleep sleeper) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !driver.IsKind(err, driver.KindExec) {
			return err
		}
		last = err

		if attempt == attempts {
			break
		}
		if observe != nil {
			observe(attempt, err)
		}
		if err := sleep(ctx, p.Delay); err != nil {
			return errors.Join(err, last)
		}
	}

	return &RetryExhaustedError{Attempts: attempts, Last: last}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
