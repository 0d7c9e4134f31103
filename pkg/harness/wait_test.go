package harness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastPoll = &PollOptions{Timeout: 100 * time.Millisecond, Interval: time.Millisecond}

func TestPollSucceedsFirstTime(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), func(context.Context) error {
		calls++
		return nil
	}, fastPoll)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPollRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), func(context.Context) error {
		calls++
		if calls < 4 {
			return errors.New("not yet")
		}
		return nil
	}, fastPoll)

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
}

func TestPollTimeoutKeepsLastError(t *testing.T) {
	start := time.Now()
	err := Poll(context.Background(), func(context.Context) error {
		return notFound("FindCategory", `category "Nope"`, nil)
	}, &PollOptions{Timeout: 30 * time.Millisecond, Interval: 5 * time.Millisecond})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `category "Nope"`)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPollBreakStopsImmediately(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Poll(context.Background(), func(context.Context) error {
		calls++
		return PollBreak(boom)
	}, fastPoll)

	assert.Same(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestPollCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Poll(ctx, func(context.Context) error {
		calls++
		return nil
	}, fastPoll)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestPollCanceledWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Poll(ctx, func(context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return ErrNotFound
	}, &PollOptions{Timeout: time.Second, Interval: time.Millisecond})

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPollDefaults(t *testing.T) {
	// nil options fall back to the default window; success returns at once
	err := Poll(context.Background(), func(context.Context) error { return nil }, nil)
	assert.NoError(t, err)
}

func TestPollWindowClosingInsideCondition(t *testing.T) {
	calls := 0
	err := Poll(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return notFound("Wait", "block", nil)
		}
		// The condition outlives the window and reports the context error
		<-ctx.Done()
		return PollBreak(ctx.Err())
	}, &PollOptions{Timeout: 20 * time.Millisecond, Interval: time.Millisecond})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "gave up after")
}

func TestPollWindowClosingOnFirstAttempt(t *testing.T) {
	err := Poll(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return PollBreak(ctx.Err())
	}, &PollOptions{Timeout: 5 * time.Millisecond, Interval: time.Millisecond})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "gave up after")
}

func TestPollParentDeadlineIsReturned(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := Poll(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return PollBreak(ctx.Err())
	}, &PollOptions{Timeout: time.Second, Interval: time.Millisecond})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotContains(t, err.Error(), "gave up after")
}
