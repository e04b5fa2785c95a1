// Package resilience retries transient failures with exponential backoff.
// The CLI applies it to remote schema downloads.
package resilience

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// Default backoff bounds applied when a Policy leaves them unset.
const (
	DefaultBaseDelay = 100 * time.Millisecond
	DefaultMaxDelay  = 30 * time.Second
)

// Policy defines the retry behavior for an operation.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps every wait.
	MaxDelay time.Duration

	// UseJitter scales each wait by a random factor in [0.5, 1.5).
	UseJitter bool
}

// FetchPolicy is the policy used for HTTP schema downloads.
func FetchPolicy() Policy {
	return Policy{
		MaxRetries: 2,
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   2 * time.Second,
		UseJitter:  true,
	}
}

// Permanent is implemented by errors that retrying cannot fix, such as an
// HTTP 404.
type Permanent interface {
	Permanent() bool
}

// RetryFunc observes a failed attempt before the wait that follows it.
type RetryFunc func(attempt int, err error, wait time.Duration)

// Retry calls fn until it succeeds, returns a non-retryable error, the
// policy is exhausted, or ctx is done. It returns the last error seen.
func Retry(ctx context.Context, policy Policy, onRetry RetryFunc, fn func(ctx context.Context) error) error {
	var lastErr error
	attempts := max(policy.MaxRetries, 0) + 1

	for attempt := range attempts {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == attempts-1 {
			break
		}

		wait := Backoff(attempt, policy.BaseDelay, policy.MaxDelay, policy.UseJitter)
		if onRetry != nil {
			onRetry(attempt+1, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// Backoff returns baseDelay * 2^attempt, capped at maxDelay.
func Backoff(attempt int, baseDelay, maxDelay time.Duration, useJitter bool) time.Duration {
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	if maxDelay <= 0 {
		maxDelay = DefaultMaxDelay
	}

	delay := baseDelay
	for range attempt {
		delay *= 2
		if delay >= maxDelay {
			delay = maxDelay
			break
		}
	}

	if useJitter {
		delay = time.Duration(float64(delay) * (0.5 + rand.Float64()))
	}
	return min(delay, maxDelay)
}

// IsRetryable reports whether err may succeed on another attempt.
// Context errors and Permanent errors are final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var p Permanent
	if errors.As(err, &p) && p.Permanent() {
		return false
	}
	return true
}
