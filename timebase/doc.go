// Package timebase converts between the monotonic tick counter and
// micro/millisecond units, and turns relative waits into absolute deadlines.
//
// # Ticks
//
// A tick is 100ns of CLOCK_MONOTONIC_RAW, a source that wall-clock
// adjustments and NTP slewing do not touch:
//
//	start := timebase.TickCount()
//	work()
//	elapsed := timebase.TicksToMicroseconds(timebase.TickCount() - start)
//
// Clock read failures are not reported; TickCount returns whatever the
// zeroed timespec converts to.
//
// # Deadlines
//
// A Deadline is an absolute point on one clock, normalized so that
// 0 <= Nsec < 1e9. Timed waits compute theirs once, at call entry:
//
//	d := timebase.DeadlineAfter(250) // CLOCK_REALTIME + 250ms
//	err := timebase.Acquire(ctx, d,
//		func() bool { return sem.TryAcquire(1) },
//		func(ctx context.Context) error { return sem.Acquire(ctx, 1) })
//
// The non-blocking attempt runs first, so a free resource is taken even
// with a zero timeout. Acquire retries for as long as the deadline has not genuinely passed, so
// an early wake-up never turns into a timeout. SleepUntil does the same for
// clock_nanosleep(TIMER_ABSTIME), retrying on EINTR without moving the
// target.
package timebase
