// Package retryx expresses retry behavior as a reusable policy value,
// decoupled from any specific operation. The outbox drain and other
// network-facing calls consume the same combinator instead of hand-rolling
// retry loops.
package retryx

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy describes how an operation is retried: how many attempts are made,
// the delay between them, how long a single attempt may run, and an optional
// observer invoked before each retry.
type Policy struct {
	MaxAttempts    int
	Backoff        time.Duration
	Exponential    bool
	AttemptTimeout time.Duration

	// OnRetry, if set, is called after a failed attempt with the attempt
	// number (1-based) and the error that caused the retry.
	OnRetry func(attempt int, err error)
}

// Permanent wraps err so the combinator stops immediately instead of
// retrying. Use it for definitive failures such as domain rejections.
func Permanent(err error) error {
	return &permanentError{err: err}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Do runs fn under the policy. Each attempt gets its own timeout-bounded
// context when AttemptTimeout is set. The last attempt's error is returned
// once attempts are exhausted; errors wrapped with Permanent are returned
// right away.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var b retry.Backoff
	if p.Exponential {
		b = retry.NewExponential(p.Backoff)
	} else {
		b = retry.NewConstant(p.Backoff)
	}
	b = retry.WithMaxRetries(uint64(attempts-1), b)

	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++

		attemptCtx := ctx
		if p.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.AttemptTimeout)
			defer cancel()
		}

		err := fn(attemptCtx)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return err
		}

		if p.OnRetry != nil && attempt < attempts {
			p.OnRetry(attempt, err)
		}
		return retry.RetryableError(err)
	})

	// Unwrap our permanent marker so callers match the underlying error.
	var perm *permanentError
	if errors.As(err, &perm) {
		return perm.err
	}
	return err
}
