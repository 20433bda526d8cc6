package timebase

import "golang.org/x/sys/unix"

// Ticks counts 100ns units of the monotonic raw clock.
type Ticks uint64

const (
	NanosPerTick   = 100
	TicksPerMicro  = 10
	TicksPerMilli  = TicksPerMicro * 1000
	TicksPerSecond = TicksPerMilli * 1000
)

// TickCount returns ticks since an unspecified epoch.
func TickCount() Ticks {
	var ts unix.Timespec
	// TODO: surface clock_gettime failures once callers can handle a status here.
	_ = unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts)
	return Ticks(uint64(ts.Sec)*TicksPerSecond + uint64(ts.Nsec)/NanosPerTick)
}

// MicrosecondsToTicks converts a microsecond count to ticks.
func MicrosecondsToTicks(us uint64) Ticks {
	return Ticks(us * TicksPerMicro)
}

// TicksToMicroseconds converts ticks to whole microseconds, truncating.
func TicksToMicroseconds(t Ticks) uint64 {
	return uint64(t) / TicksPerMicro
}

// TickFrequency returns the number of ticks per second.
func TickFrequency() uint64 {
	return TicksPerSecond
}
