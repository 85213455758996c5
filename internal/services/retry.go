package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 30 * time.Second
)

// RetryPolicy controls how Retry spaces its attempts. The zero value gets
// sane defaults: 3 attempts with exponential backoff from 1s capped at 30s.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration

	// Sleeper overrides how delays are waited out. Tests inject a recorder
	// here to avoid real sleeps.
	Sleeper func(time.Duration)
}

func (p RetryPolicy) attempts() int {
	if p.Attempts <= 0 {
		return defaultRetryAttempts
	}
	return p.Attempts
}

func (p RetryPolicy) baseDelay() time.Duration {
	if p.BaseDelay <= 0 {
		return defaultRetryBaseDelay
	}
	return p.BaseDelay
}

func (p RetryPolicy) maxDelay() time.Duration {
	if p.MaxDelay <= 0 {
		return defaultRetryMaxDelay
	}
	return p.MaxDelay
}

// backoffDelay returns the delay before the attempt after the given 1-based
// attempt number: base, base*2, base*4, capped at MaxDelay.
func (p RetryPolicy) backoffDelay(attempt int) time.Duration {
	delay := p.baseDelay()
	maxDelay := p.maxDelay()
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			return maxDelay
		}
		delay *= 2
	}
	if delay > maxDelay {
		return maxDelay
	}
	return delay
}

// Retry runs op until it succeeds, fails permanently, or the attempt budget
// is exhausted. Permanent failures (per Retryable) and context cancellation
// stop immediately.
func Retry(ctx context.Context, policy RetryPolicy, op func(ctx context.Context) error) error {
	attempts := policy.attempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !Retryable(err) {
			return err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, policy, policy.backoffDelay(attempt)); err != nil {
			return err
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func sleep(ctx context.Context, policy RetryPolicy, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if policy.Sleeper != nil {
		policy.Sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
