package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d", e.Code)
}

// IsPermanent reports whether err is an auth/not-found failure that retrying
// cannot fix.
func IsPermanent(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}

// IsRateLimit reports whether err is an upstream 429.
func IsRateLimit(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusTooManyRequests
}

// RetryPolicy retries transient upstream failures with exponential backoff.
// Rate-limit failures back off steeper than generic errors.
type RetryPolicy struct {
	MaxRetries          int
	BaseDelay           time.Duration
	Multiplier          int
	RateLimitMultiplier int

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetry matches the policy used for low-volume endpoints.
func DefaultRetry() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, BaseDelay: 300 * time.Millisecond, Multiplier: 2, RateLimitMultiplier: 5}
}

// EmailRetry is the steeper policy for the rate-limit-prone email endpoint.
func EmailRetry() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, Multiplier: 2, RateLimitMultiplier: 5}
}

// Do runs fn until it succeeds, a permanent error occurs, retries are
// exhausted, or ctx is cancelled.
func (p RetryPolicy) Do(ctx context.Context, log *zap.Logger, fn func(context.Context) error) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			mult := p.Multiplier
			if IsRateLimit(lastErr) {
				mult = p.RateLimitMultiplier
			}
			delay := p.BaseDelay * time.Duration(pow(mult, attempt-1))
			log.Debug("retrying upstream call",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", p.MaxRetries+1),
				zap.Duration("delay", delay))
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if IsPermanent(lastErr) {
			return lastErr
		}
		log.Warn("upstream call failed", zap.Int("attempt", attempt+1), zap.Error(lastErr))
	}
	return lastErr
}

func pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
