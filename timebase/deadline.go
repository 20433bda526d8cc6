package timebase

import (
	"math"
	"time"

	"golang.org/x/sys/unix"
)

// WaitForever disables the deadline of a timed wait.
const WaitForever uint32 = math.MaxUint32

const (
	nanosPerMilli  = 1_000_000
	nanosPerSecond = 1_000_000_000
	millisPerSec   = 1000
)

// Clock selects the host clock a Deadline is measured on.
type Clock int32

const (
	ClockRealtime  Clock = unix.CLOCK_REALTIME
	ClockMonotonic Clock = unix.CLOCK_MONOTONIC
)

// Deadline is an absolute point in time on Clock.
type Deadline struct {
	Clock Clock
	Sec   int64
	Nsec  int64
}

// Now reads clock. Read failures leave the zero time.
func Now(clock Clock) Deadline {
	var ts unix.Timespec
	_ = unix.ClockGettime(int32(clock), &ts)
	sec, nsec := ts.Unix()
	return Deadline{Clock: clock, Sec: sec, Nsec: nsec}
}

// DeadlineAfter returns the CLOCK_REALTIME deadline ms from now.
func DeadlineAfter(ms uint32) Deadline {
	return Now(ClockRealtime).AddMillis(ms)
}

// Normalize carries nanosecond overflow into seconds.
func (d Deadline) Normalize() Deadline {
	d.Sec += d.Nsec / nanosPerSecond
	d.Nsec %= nanosPerSecond
	if d.Nsec < 0 {
		d.Nsec += nanosPerSecond
		d.Sec--
	}
	return d
}

// AddMillis advances d by ms.
func (d Deadline) AddMillis(ms uint32) Deadline {
	d.Sec += int64(ms / millisPerSec)
	d.Nsec += int64(ms%millisPerSec) * nanosPerMilli
	return d.Normalize()
}

// Before reports whether d is strictly earlier than o. Both must be on the
// same clock.
func (d Deadline) Before(o Deadline) bool {
	if d.Sec != o.Sec {
		return d.Sec < o.Sec
	}
	return d.Nsec < o.Nsec
}

// Passed reports whether the deadline's clock has reached d.
func (d Deadline) Passed() bool {
	return !Now(d.Clock).Before(d)
}

// Time converts a realtime deadline to a wall-clock time.Time without a
// monotonic reading, so comparisons against it follow the wall clock.
func (d Deadline) Time() time.Time {
	return time.Unix(d.Sec, d.Nsec)
}

// Timespec converts d for host calls.
func (d Deadline) Timespec() unix.Timespec {
	return unix.NsecToTimespec(d.Sec*nanosPerSecond + d.Nsec)
}
