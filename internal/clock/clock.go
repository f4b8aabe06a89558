// Package clock provides retry, polling and sleep helpers bound to a context.
package clock

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrPollTimeout is returned by PollUntil when the condition never held.
var ErrPollTimeout = errors.New("condition not met before timeout")

// RetryPolicy bounds Retry. Retryable decides which errors are worth another attempt; nil retries
// every error.
type RetryPolicy struct {
	Attempts     uint64
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Retryable    func(error) bool
}

// DefaultRetryPolicy retries three times starting at 250ms.
func DefaultRetryPolicy(retryable func(error) bool) RetryPolicy {
	return RetryPolicy{
		Attempts:     3,
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Retryable:    retryable,
	}
}

// Retry runs op with exponential backoff until it succeeds, returns a non-retryable error, the
// attempts run out or ctx is done. The last error of op is returned.
func Retry(ctx context.Context, policy RetryPolicy, op func(ctx context.Context) error) error {
	attempts := max(policy.Attempts, 1)
	exp := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(policy.InitialDelay),
		backoff.WithMaxInterval(max(policy.MaxDelay, policy.InitialDelay)),
		backoff.WithMaxElapsedTime(0),
	)
	b := backoff.WithContext(backoff.WithMaxRetries(exp, attempts-1), ctx)

	return backoff.Retry(func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if policy.Retryable != nil && !policy.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

// PollUntil evaluates cond every interval until it reports true, returns an error or timeout
// elapses. A zero timeout polls until ctx is done.
func PollUntil(ctx context.Context, interval, timeout time.Duration, cond func(ctx context.Context) (bool, error)) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	for {
		done, err := cond(ctx)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, context.DeadlineExceeded) {
				return ErrPollTimeout
			}
			return err
		}
		if done {
			return nil
		}
		if err := SleepWithContext(ctx, interval); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return ErrPollTimeout
			}
			return err
		}
	}
}

// SleepWithContext waits for d or returns early with ctx.Err(). A non-positive d only checks ctx.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
