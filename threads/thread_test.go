package threads

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/wippyai/palrtos/errors"
)

func sleepRaw(d time.Duration) {
	ts := unix.NsecToTimespec(d.Nanoseconds())
	_ = unix.Nanosleep(&ts, nil)
}

func newTestManager() *Manager {
	return NewManager(WithScheduling(SchedulingInherit))
}

func TestSpawnRunsEntryOnOwnThread(t *testing.T) {
	m := newTestManager()

	type result struct {
		arg any
		tid ThreadID
	}
	got := make(chan result, 1)

	id, err := m.Spawn(&Descriptor{
		Entry: func(_ context.Context, arg any) {
			got <- result{arg: arg, tid: CurrentID()}
		},
		Arg:       "payload",
		StackSize: MinStackSize,
		Priority:  PriorityNormal,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	select {
	case r := <-got:
		assert.Equal(t, "payload", r.arg)
		assert.Equal(t, id, r.tid)
	case <-time.After(time.Second):
		t.Fatal("entry never ran")
	}
}

func TestSpawnDescriptorIsCopied(t *testing.T) {
	m := newTestManager()
	release := make(chan struct{})

	desc := &Descriptor{
		Entry:     func(ctx context.Context, _ any) { <-release },
		StackSize: 64 * 1024,
		Priority:  PriorityHigh,
	}
	id, err := m.Spawn(desc)
	require.NoError(t, err)
	defer close(release)

	desc.Priority = PriorityIdle
	desc.StackSize = 0

	th, ok := m.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, PriorityHigh, th.Descriptor().Priority)
	assert.Equal(t, uint32(64*1024), th.Descriptor().StackSize)
}

func TestSpawnRejectsBadDescriptors(t *testing.T) {
	m := newTestManager()
	noop := func(context.Context, any) {}

	_, err := m.Spawn(nil)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = m.Spawn(&Descriptor{StackSize: MinStackSize})
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = m.Spawn(&Descriptor{Entry: noop, StackSize: MinStackSize, Priority: Priority(42)})
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = m.Spawn(&Descriptor{Entry: noop, StackSize: 512})
	assert.ErrorIs(t, err, errors.ErrGenericFailure)
}

func TestSpawnRoundRobinNeedsPrivilege(t *testing.T) {
	m := NewManager()

	ran := make(chan struct{})
	_, err := m.Spawn(&Descriptor{
		Entry:     func(context.Context, any) { close(ran) },
		StackSize: MinStackSize,
		Priority:  PriorityNormal,
	})
	if err != nil {
		// Unprivileged hosts reject real-time priorities.
		assert.Equal(t, errors.StatusPriorityDenied, errors.StatusOf(err))
		return
	}
	<-ran
}

func TestTerminateCancelsEntry(t *testing.T) {
	m := newTestManager()

	id, err := m.Spawn(&Descriptor{
		Entry:     func(ctx context.Context, _ any) { <-ctx.Done() },
		StackSize: MinStackSize,
		Priority:  PriorityNormal,
	})
	require.NoError(t, err)

	th, ok := m.Lookup(id)
	require.True(t, ok)

	require.NoError(t, m.Terminate(id))

	select {
	case <-th.Done():
	case <-time.After(time.Second):
		t.Fatal("thread did not observe termination")
	}

	assert.Eventually(t, func() bool { return m.Running() == 0 }, time.Second, time.Millisecond)
}

func TestTerminateExitedThreadSucceeds(t *testing.T) {
	m := newTestManager()

	id, err := m.Spawn(&Descriptor{
		Entry:     func(context.Context, any) {},
		StackSize: MinStackSize,
		Priority:  PriorityLow,
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok := m.Lookup(id)
		return !ok
	}, time.Second, time.Millisecond)

	assert.NoError(t, m.Terminate(id))
}

func TestTerminateSelfIsNoop(t *testing.T) {
	m := newTestManager()
	result := make(chan error, 1)
	proceed := make(chan struct{})

	id, err := m.Spawn(&Descriptor{
		Entry: func(ctx context.Context, _ any) {
			result <- m.Terminate(CurrentID())
			// Still alive and not canceled after terminating itself.
			if ctx.Err() != nil {
				result <- ctx.Err()
			}
			<-proceed
		},
		StackSize: MinStackSize,
		Priority:  PriorityNormal,
	})
	require.NoError(t, err)

	assert.NoError(t, <-result)
	_, ok := m.Lookup(id)
	assert.True(t, ok)
	close(proceed)
}

func TestTerminateInterruptsBlockingSyscall(t *testing.T) {
	m := newTestManager()
	slept := make(chan time.Duration, 1)

	id, err := m.Spawn(&Descriptor{
		Entry: func(ctx context.Context, _ any) {
			start := time.Now()
			for ctx.Err() == nil {
				// Raw sleep: only a signal gets us out early.
				sleepRaw(5 * time.Second)
			}
			slept <- time.Since(start)
		},
		StackSize: MinStackSize,
		Priority:  PriorityNormal,
	})
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, m.Terminate(id))

	select {
	case d := <-slept:
		assert.Less(t, d, 2*time.Second)
	case <-time.After(4 * time.Second):
		t.Fatal("blocking sleep was not interrupted")
	}
}

func TestCurrentIDStableWhenLocked(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	assert.Equal(t, CurrentID(), CurrentID())
	assert.NotZero(t, CurrentID())
}
