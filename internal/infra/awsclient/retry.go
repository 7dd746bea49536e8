// Where: internal/infra/awsclient/retry.go
// What: Bounded exponential backoff around AWS calls.
// Why: Throttling is retried here and only surfaces once the budget is spent.
package awsclient

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	slogctx "github.com/veqryn/slog-context"
)

// RetryPolicy bounds one retried call.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
	// ShouldRetry overrides Retryable when set.
	ShouldRetry func(error) bool
}

// Retry runs op until it succeeds, fails permanently or the policy is spent.
// It returns the number of attempts made.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(context.Context) (T, error)) (T, int, error) {
	shouldRetry := policy.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = Retryable
	}

	attempts := 0
	operation := func() (T, error) {
		attempts++
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil || !shouldRetry(err) {
			return out, backoff.Permanent(err)
		}
		slogctx.FromCtx(ctx).Debug("retrying AWS call", "attempt", attempts, "code", ErrorCode(err), "error", err)
		return out, err
	}

	result, err := backoff.Retry(ctx, operation, policy.options()...)
	return result, attempts, err
}

func (p RetryPolicy) options() []backoff.RetryOption {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}

	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(maxAttempts)),
	}
	if p.MaxElapsed > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(p.MaxElapsed))
	}
	return opts
}
