package timebase

import (
	"context"
	"errors"

	"golang.org/x/sys/unix"
)

// ErrDeadlinePassed is returned by Acquire once its deadline has really
// passed without the acquisition succeeding.
var ErrDeadlinePassed = errors.New("deadline passed")

// Interrupted reports whether err is a signal interruption (EINTR).
func Interrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}

// Acquire takes a resource before d passes on its own clock. try is a
// non-blocking attempt made once before any waiting, so a resource that is
// free succeeds even when d has already passed (a zero timeout). try may be
// nil. acquire then blocks with a context bounded by d; a context expiry or
// EINTR that arrives while d is still in the future (an early wake, a
// wall-clock step) is retried against the same absolute deadline.
//
// Cancellation of ctx itself is returned as ctx.Err().
func Acquire(ctx context.Context, d Deadline, try func() bool, acquire func(context.Context) error) error {
	if try != nil && try() {
		return nil
	}
	for {
		wctx, cancel := context.WithDeadline(ctx, d.Time())
		err := acquire(wctx)
		cancel()

		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case !errors.Is(err, context.DeadlineExceeded) && !Interrupted(err):
			return err
		case d.Passed():
			return ErrDeadlinePassed
		}
	}
}

// AcquireForever calls acquire with ctx until it succeeds, retrying signal
// interruptions.
func AcquireForever(ctx context.Context, acquire func(context.Context) error) error {
	for {
		err := acquire(ctx)
		if err == nil || !Interrupted(err) || ctx.Err() != nil {
			return err
		}
	}
}

// AcquireWithin is Acquire for a relative timeout, computing the deadline
// once here. WaitForever blocks without a deadline.
func AcquireWithin(ctx context.Context, timeoutMs uint32, try func() bool, acquire func(context.Context) error) error {
	if timeoutMs == WaitForever {
		return AcquireForever(ctx, acquire)
	}
	return Acquire(ctx, DeadlineAfter(timeoutMs), try, acquire)
}
