package palrtos

import (
	"github.com/wippyai/palrtos/atomicops"
	"github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/threads"
	"github.com/wippyai/palrtos/timebase"
)

// ThreadID is a host thread id. 0 is never a valid thread.
type ThreadID = threads.ThreadID

// ThreadCreate spawns desc on its own OS thread.
func (r *RTOS) ThreadCreate(desc *threads.Descriptor) (ThreadID, error) {
	return r.threads.Spawn(desc)
}

// ThreadTerminate cancels thread id. Terminating the calling thread or a
// thread that already exited succeeds without effect.
func (r *RTOS) ThreadTerminate(id ThreadID) error {
	if id <= 0 {
		return errors.NullHandle(errors.OpThread, errors.KindInvalidArgument)
	}
	return r.threads.Terminate(id)
}

// ThreadGetID returns the calling OS thread's id.
func (r *RTOS) ThreadGetID() ThreadID {
	return threads.CurrentID()
}

// Delay suspends the calling thread for ms milliseconds.
func (r *RTOS) Delay(ms uint32) error {
	if err := timebase.Delay(ms); err != nil {
		return errors.GenericFailure(errors.OpClock, "delay", err)
	}
	return nil
}

// AtomicIncrement adds delta to *addr and returns the new value.
func (r *RTOS) AtomicIncrement(addr *int32, delta int32) int32 {
	return atomicops.Add(addr, delta)
}

// KernelSysTick returns the monotonic tick count (100 ns per tick).
func (r *RTOS) KernelSysTick() timebase.Ticks {
	return timebase.TickCount()
}

// KernelSysTickMicroSec converts us microseconds to ticks.
func (r *RTOS) KernelSysTickMicroSec(us uint64) timebase.Ticks {
	return timebase.MicrosecondsToTicks(us)
}

// KernelSysTickFrequency returns ticks per second.
func (r *RTOS) KernelSysTickFrequency() uint64 {
	return timebase.TickFrequency()
}
