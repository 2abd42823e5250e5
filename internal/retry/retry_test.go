package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parisxmas/partnerhub/internal/retry"
)

var errBackend = errors.New("backend unavailable")

// recordingPolicy returns the default policy with sleeps captured
// instead of slept.
func recordingPolicy(delays *[]time.Duration) retry.Policy {
	p := retry.Default()
	p.Sleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return p
}

func TestSucceedsAfterTransientFailures(t *testing.T) {
	var delays []time.Duration
	p := recordingPolicy(&delays)

	attempts := 0
	result, err := retry.DoValue(context.Background(), p, func(ctx context.Context) (string, error) {
		attempts++
		if attempts <= 2 {
			return "", errBackend
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if result != "ok" {
		t.Fatalf("expected ok, got %q", result)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Fatalf("delay %d: want %v, got %v", i, want[i], delays[i])
		}
	}
}

func TestExhaustion(t *testing.T) {
	var delays []time.Duration
	p := recordingPolicy(&delays)

	attempts := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errBackend
	})
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected last backend error, got %v", err)
	}
	if attempts != 4 {
		t.Fatalf("expected 4 attempts (initial + 3 retries), got %d", attempts)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Fatalf("delay %d: want %v, got %v", i, want[i], delays[i])
		}
	}
}

func TestPermanentNotRetried(t *testing.T) {
	var delays []time.Duration
	p := recordingPolicy(&delays)

	attempts := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return retry.Permanent(errors.New("malformed input"))
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
	if len(delays) != 0 {
		t.Fatalf("expected no backoff, got %v", delays)
	}
	if retry.IsPermanent(err) {
		t.Fatal("permanent marker should be unwrapped before surfacing")
	}
}

func TestRetryablePredicate(t *testing.T) {
	p := retry.Default()
	p.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	p.Retryable = func(err error) bool { return false }

	attempts := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errBackend
	})
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestCancellationAbortsBackoff(t *testing.T) {
	p := retry.Default()
	p.Backoff = retry.Linear(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := p.Do(ctx, func(ctx context.Context) error {
		return errBackend
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("backoff wait not aborted promptly, took %v", elapsed)
	}
}

func TestLinearBackoff(t *testing.T) {
	b := retry.Linear(500 * time.Millisecond)
	for k, want := range map[int]time.Duration{1: 500 * time.Millisecond, 2: time.Second, 3: 1500 * time.Millisecond} {
		if got := b(k); got != want {
			t.Fatalf("Linear(%d): want %v, got %v", k, want, got)
		}
	}
}
