package harness

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default wait window.
const (
	DefaultPollTimeout  = 5 * time.Second
	DefaultPollInterval = 50 * time.Millisecond
)

// PollOptions bounds a Poll.
type PollOptions struct {
	// Timeout is the total time to keep trying; zero means DefaultPollTimeout
	Timeout time.Duration

	// Interval is the delay between attempts; zero means DefaultPollInterval
	Interval time.Duration
}

type pollBreak struct {
	err error
}

func (b *pollBreak) Error() string { return b.err.Error() }
func (b *pollBreak) Unwrap() error { return b.err }

// PollBreak wraps err so that Poll returns it at once instead of retrying.
func PollBreak(err error) error {
	return &pollBreak{err: err}
}

// Poll calls f until it returns nil, opts.Timeout elapses, or ctx is done.
// f always runs at least once. On timeout the last error from f is returned,
// wrapped; an error wrapped with PollBreak ends the poll immediately. When f
// fails only because the poll's own window closed, the timeout is reported
// with the last condition error instead.
func Poll(ctx context.Context, f func(context.Context) error, opts *PollOptions) error {
	timeout, interval := DefaultPollTimeout, DefaultPollInterval
	if opts != nil {
		if opts.Timeout > 0 {
			timeout = opts.Timeout
		}
		if opts.Interval > 0 {
			interval = opts.Interval
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	parent := ctx
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	timer := time.NewTimer(interval)
	defer timer.Stop()

	var last error
	for {
		err := f(ctx)
		if err == nil {
			return nil
		}
		if windowErr := ctx.Err(); windowErr != nil && parent.Err() == nil && errors.Is(err, windowErr) {
			if last == nil {
				last = err
			}
			return fmt.Errorf("gave up after %v: %w", timeout, last)
		}
		var pb *pollBreak
		if errors.As(err, &pb) {
			return pb.err
		}
		last = err

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return fmt.Errorf("%w: %w", ctx.Err(), err)
			}
			return fmt.Errorf("gave up after %v: %w", timeout, err)
		case <-timer.C:
			timer.Reset(interval)
		}
	}
}
