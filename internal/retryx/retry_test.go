package retryx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: time.Millisecond}
	boom := errors.New("still down")

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoPermanentStopsImmediately(t *testing.T) {
	p := Policy{MaxAttempts: 5, Backoff: time.Millisecond}
	rejected := errors.New("rejected")

	calls := 0
	err := p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(rejected)
	})
	assert.ErrorIs(t, err, rejected)
	assert.Equal(t, 1, calls, "permanent errors must not be retried")
}

func TestDoOnRetryObserver(t *testing.T) {
	var attempts []int
	p := Policy{
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
		OnRetry:     func(attempt int, err error) { attempts = append(attempts, attempt) },
	}

	_ = p.Do(context.Background(), func(ctx context.Context) error {
		return errors.New("transient")
	})

	// Called after every failed attempt except the last.
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDoAttemptTimeout(t *testing.T) {
	p := Policy{MaxAttempts: 1, Backoff: time.Millisecond, AttemptTimeout: 10 * time.Millisecond}

	err := p.Do(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoZeroAttemptsMeansOne(t *testing.T) {
	p := Policy{Backoff: time.Millisecond}

	calls := 0
	_ = p.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errors.New("x")
	})
	assert.Equal(t, 1, calls)
}
