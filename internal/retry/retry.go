// Package retry runs a storage operation under a bounded backoff
// policy. One policy is shared by every repository operation so the
// schedule stays consistent and independently testable.
package retry

import (
	"context"
	"errors"
	"time"
)

// BackoffFunc returns the delay before retry attempt k (1-indexed).
type BackoffFunc func(attempt int) time.Duration

// Linear returns a backoff of base, 2*base, 3*base, ...
func Linear(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * base
	}
}

// Policy describes how an operation is retried. The zero value is not
// usable; construct with Default or fill every field.
type Policy struct {
	// MaxRetries is the number of retries after the initial attempt.
	MaxRetries int
	// Backoff yields the delay before each retry.
	Backoff BackoffFunc
	// Retryable reports whether an error is worth retrying. When nil,
	// everything except Permanent errors is retried.
	Retryable func(error) bool
	// Sleep waits out a backoff delay. Tests inject a recorder here;
	// when nil, sleepContext waits on a real timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default is the store's policy: initial attempt plus three retries,
// delayed 1s, 2s, 3s.
func Default() Policy {
	return Policy{
		MaxRetries: 3,
		Backoff:    Linear(time.Second),
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as non-retryable: the operation fails
// immediately and err is surfaced as-is to the caller's unwrap chain.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

// Do runs op under the policy. It returns nil on the first success,
// the last operation error once attempts are exhausted or a
// non-retryable error occurs, or ctx.Err() if the context is canceled
// during a backoff wait.
func (p Policy) Do(ctx context.Context, op func(context.Context) error) error {
	_, err := DoValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue is Do for operations that produce a value.
func DoValue[T any](ctx context.Context, p Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := p.sleep(ctx, p.Backoff(attempt)); err != nil {
				return zero, err
			}
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !p.retryable(err) {
			break
		}
	}

	var pe *permanentError
	if errors.As(lastErr, &pe) {
		return zero, pe.err
	}
	return zero, lastErr
}

func (p Policy) retryable(err error) bool {
	if IsPermanent(err) {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

func (p Policy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
