package palrtos

import (
	"context"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/internal/logging"
	"github.com/wippyai/palrtos/resource"
	"github.com/wippyai/palrtos/threads"
	"github.com/wippyai/palrtos/timebase"
	"github.com/wippyai/palrtos/timer"
)

func newTestRTOS(t *testing.T) *RTOS {
	t.Helper()
	r, err := New(Config{Scheduling: threads.SchedulingInherit})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestNewRejectsUnknownScheduling(t *testing.T) {
	_, err := New(Config{Scheduling: threads.Scheduling(9)})
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestNullHandlesRejected(t *testing.T) {
	r := newTestRTOS(t)

	assert.ErrorIs(t, r.MutexWait(0, 0), errors.ErrInvalidArgument)
	assert.ErrorIs(t, r.MutexRelease(0), errors.ErrInvalidArgument)
	var m MutexID
	assert.ErrorIs(t, r.MutexDelete(&m), errors.ErrResourceError)
	assert.ErrorIs(t, r.MutexDelete(nil), errors.ErrResourceError)

	_, err := r.SemaphoreWait(0, 0)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	assert.ErrorIs(t, r.SemaphoreRelease(0), errors.ErrInvalidArgument)
	var s SemaphoreID
	assert.ErrorIs(t, r.SemaphoreDelete(&s), errors.ErrResourceError)

	assert.ErrorIs(t, r.TimerStart(0, 10), errors.ErrInvalidArgument)
	assert.ErrorIs(t, r.TimerStop(0), errors.ErrInvalidArgument)
	var tm TimerID
	assert.ErrorIs(t, r.TimerDelete(&tm), errors.ErrParameterError)

	assert.ErrorIs(t, r.ThreadTerminate(0), errors.ErrInvalidArgument)
}

func TestMutexLifecycle(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	r := newTestRTOS(t)
	id, err := r.MutexCreate()
	require.NoError(t, err)
	require.NotZero(t, id)

	require.NoError(t, r.MutexWait(id, 10))
	require.NoError(t, r.MutexWait(id, timebase.WaitForever))
	require.NoError(t, r.MutexRelease(id))
	require.NoError(t, r.MutexRelease(id))

	stale := id
	require.NoError(t, r.MutexDelete(&id))
	assert.Zero(t, id)

	assert.ErrorIs(t, r.MutexWait(stale, 0), errors.ErrInvalidArgument)
	assert.ErrorIs(t, r.MutexDelete(&stale), errors.ErrResourceError)
}

func TestSemaphoreLifecycle(t *testing.T) {
	r := newTestRTOS(t)
	id, err := r.SemaphoreCreate(1)
	require.NoError(t, err)

	left, err := r.SemaphoreWait(id, 0)
	require.NoError(t, err)
	assert.Zero(t, left)

	_, err = r.SemaphoreWait(id, 20)
	assert.ErrorIs(t, err, errors.ErrTimeout)

	require.NoError(t, r.SemaphoreRelease(id))
	require.NoError(t, r.SemaphoreDelete(&id))
	assert.Zero(t, id)

	_, err = r.SemaphoreCreate(1 << 31)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestTimerLifecycle(t *testing.T) {
	r := newTestRTOS(t)
	var n atomic.Int32

	id, err := r.TimerCreate(func(any) { n.Add(1) }, nil, timer.Periodic)
	require.NoError(t, err)

	require.NoError(t, r.TimerStart(id, 10))
	assert.True(t, r.Timers().SlotInUse())
	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	// Delete without Stop must not leak the fine-grained slot.
	stale := id
	require.NoError(t, r.TimerDelete(&id))
	assert.Zero(t, id)
	assert.False(t, r.Timers().SlotInUse())

	assert.ErrorIs(t, r.TimerDelete(&stale), errors.ErrParameterError)
	assert.ErrorIs(t, r.TimerStart(stale, 10), errors.ErrInvalidArgument)
}

func TestCloseDeletesOutstanding(t *testing.T) {
	r, err := New(Config{Scheduling: threads.SchedulingInherit})
	require.NoError(t, err)

	_, err = r.MutexCreate()
	require.NoError(t, err)
	_, err = r.SemaphoreCreate(3)
	require.NoError(t, err)
	tm, err := r.TimerCreate(func(any) {}, nil, timer.Periodic)
	require.NoError(t, err)
	require.NoError(t, r.TimerStart(tm, 10))

	require.NoError(t, r.Close())
	assert.False(t, r.Timers().SlotInUse())

	_, err = r.MutexCreate()
	assert.Error(t, err)
}

func TestThreadCreateAndTerminate(t *testing.T) {
	r := newTestRTOS(t)
	ids := make(chan ThreadID, 1)

	id, err := r.ThreadCreate(&threads.Descriptor{
		Entry: func(ctx context.Context, _ any) {
			ids <- r.ThreadGetID()
			<-ctx.Done()
		},
		StackSize: threads.MinStackSize,
		Priority:  threads.PriorityNormal,
	})
	require.NoError(t, err)
	assert.Equal(t, id, <-ids)

	require.NoError(t, r.ThreadTerminate(id))
	assert.Eventually(t, func() bool { return r.Threads().Running() == 0 }, time.Second, time.Millisecond)
	assert.NoError(t, r.ThreadTerminate(id))
}

func TestKernelHelpers(t *testing.T) {
	r := newTestRTOS(t)

	assert.Equal(t, uint64(10_000_000), r.KernelSysTickFrequency())
	assert.Equal(t, timebase.Ticks(10), r.KernelSysTickMicroSec(1))

	before := r.KernelSysTick()
	require.NoError(t, r.Delay(5))
	assert.GreaterOrEqual(t, uint64(r.KernelSysTick()-before), uint64(5*timebase.TicksPerMilli))

	var v int32
	assert.Equal(t, int32(3), r.AtomicIncrement(&v, 3))
	assert.Equal(t, int32(1), r.AtomicIncrement(&v, -2))

	assert.Equal(t, 7, r.TranslatePriority(threads.PriorityIdle))
	assert.Equal(t, 16, r.TranslatePriority(threads.PriorityReservedHighResTimer))
}

func TestHandleEventsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer logging.SetLogger(nil)

	r, err := New(Config{Logger: zap.New(core), Scheduling: threads.SchedulingInherit})
	require.NoError(t, err)
	defer r.Close()

	id, err := r.SemaphoreCreate(0)
	require.NoError(t, err)
	require.NoError(t, r.SemaphoreDelete(&id))

	created := logs.FilterMessage("handle created").All()
	require.Len(t, created, 1)
	assert.Equal(t, resource.ClassSemaphore.String(), created[0].ContextMap()["class"])
	assert.Equal(t, 1, logs.FilterMessage("handle released").Len())
}
