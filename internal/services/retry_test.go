package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	var delays []time.Duration
	policy := RetryPolicy{
		Attempts:  4,
		BaseDelay: time.Second,
		MaxDelay:  10 * time.Second,
		Sleeper:   func(d time.Duration) { delays = append(delays, d) },
	}

	calls := 0
	err := Retry(context.Background(), policy, func(context.Context) error {
		calls++
		if calls < 3 {
			return Wrap(ErrTransient, "svc", "call", "", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetryStopsOnPermanentFailure(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 5, Sleeper: func(time.Duration) {}}, func(context.Context) error {
		calls++
		return Wrap(ErrValidation, "svc", "call", "bad input", nil)
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("err = %v, want validation", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryExhaustsBudget(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), RetryPolicy{Attempts: 3, Sleeper: func(time.Duration) {}}, func(context.Context) error {
		calls++
		return Wrap(ErrTransient, "svc", "call", "", nil)
	})
	if err == nil {
		t.Fatal("expected error after exhausted attempts")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, ErrTransient) {
		t.Errorf("final error lost its marker: %v", err)
	}
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, RetryPolicy{Attempts: 5, Sleeper: func(time.Duration) { cancel() }}, func(context.Context) error {
		calls++
		return Wrap(ErrTransient, "svc", "call", "", nil)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestBackoffDelayCaps(t *testing.T) {
	policy := RetryPolicy{BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	if d := policy.backoffDelay(1); d != time.Second {
		t.Errorf("attempt 1 delay = %v", d)
	}
	if d := policy.backoffDelay(2); d != 2*time.Second {
		t.Errorf("attempt 2 delay = %v", d)
	}
	if d := policy.backoffDelay(4); d != 5*time.Second {
		t.Errorf("attempt 4 delay = %v, want cap", d)
	}
}
