package timebase

import (
	"context"

	"golang.org/x/sys/unix"
)

// SleepUntil blocks the calling OS thread until d on d.Clock. A signal
// interruption re-issues the sleep for the same target; ctx is only
// consulted on interruption, so a canceled caller wakes at the next signal.
func SleepUntil(ctx context.Context, d Deadline) error {
	ts := d.Timespec()
	for {
		err := unix.ClockNanosleep(int32(d.Clock), unix.TIMER_ABSTIME, &ts, nil)
		if err == nil {
			return nil
		}
		if !Interrupted(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Delay sleeps for ms milliseconds. An interrupted sleep resumes with the
// time that was left.
func Delay(ms uint32) error {
	req := unix.NsecToTimespec(int64(ms) * nanosPerMilli)
	var rem unix.Timespec
	for {
		err := unix.Nanosleep(&req, &rem)
		if err == nil {
			return nil
		}
		if !Interrupted(err) {
			return err
		}
		req = rem
	}
}
