// Package mutex provides a recursive mutex with absolute-deadline timed
// acquisition.
//
// Ownership is per OS thread. Threads spawned by package threads are locked
// to their OS thread; other goroutines must call runtime.LockOSThread
// before using a Mutex, or a recursive Wait and the matching Release may
// be attributed to different threads.
package mutex

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	palerrors "github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/internal/logging"
	"github.com/wippyai/palrtos/internal/syncutil"
	"github.com/wippyai/palrtos/threads"
	"github.com/wippyai/palrtos/timebase"
)

// Mutex is a recursive lock. The zero value is not usable; call New.
type Mutex struct {
	sem       *semaphore.Weighted
	guard     syncutil.Mutex
	owner     threads.ThreadID
	count     int
	destroyed bool
}

// New returns an unlocked mutex.
func New() (*Mutex, error) {
	return &Mutex{sem: semaphore.NewWeighted(1)}, nil
}

// Wait locks the mutex, waiting at most timeoutMs milliseconds.
// timebase.WaitForever waits without a deadline. The owning thread may
// lock again without blocking; each Wait needs one Release.
func (m *Mutex) Wait(timeoutMs uint32) error {
	return m.WaitContext(context.Background(), timeoutMs)
}

// WaitContext is Wait bounded additionally by ctx.
func (m *Mutex) WaitContext(ctx context.Context, timeoutMs uint32) error {
	tid := threads.CurrentID()

	m.guard.Lock()
	if m.destroyed {
		m.guard.Unlock()
		return palerrors.NullHandle(palerrors.OpMutex, palerrors.KindInvalidArgument)
	}
	if m.count > 0 && m.owner == tid {
		m.count++
		m.guard.Unlock()
		return nil
	}
	m.guard.Unlock()

	err := timebase.AcquireWithin(ctx, timeoutMs, func() bool {
		return m.sem.TryAcquire(1)
	}, func(c context.Context) error {
		return m.sem.Acquire(c, 1)
	})
	switch {
	case err == nil:
	case errors.Is(err, timebase.ErrDeadlinePassed):
		return palerrors.Timeout(palerrors.OpMutex, timeoutMs)
	default:
		logging.Named("mutex").Error("wait failed", zap.Error(err))
		return palerrors.GenericFailure(palerrors.OpMutex, "wait", err)
	}

	m.guard.Lock()
	m.owner = tid
	m.count = 1
	m.guard.Unlock()
	return nil
}

// Release undoes one Wait by the calling thread.
func (m *Mutex) Release() error {
	tid := threads.CurrentID()

	m.guard.Lock()
	defer m.guard.Unlock()

	if m.destroyed {
		return palerrors.NullHandle(palerrors.OpMutex, palerrors.KindInvalidArgument)
	}
	if m.count == 0 || m.owner != tid {
		logging.Named("mutex").Error("release by non-owner",
			zap.Int("tid", int(tid)),
			zap.Int("owner", int(m.owner)))
		return palerrors.GenericFailure(palerrors.OpMutex, "mutex not owned by calling thread", nil)
	}

	m.count--
	if m.count == 0 {
		m.owner = 0
		m.sem.Release(1)
	}
	return nil
}

// Delete destroys the mutex. Deleting a locked mutex destroys it anyway
// and reports a ResourceError; deleting twice is a ResourceError.
func (m *Mutex) Delete() error {
	m.guard.Lock()
	defer m.guard.Unlock()

	if m.destroyed {
		return palerrors.ResourceError(palerrors.OpMutex, "mutex already destroyed", nil)
	}
	m.destroyed = true

	if m.count > 0 {
		logging.Named("mutex").Error("deleted while locked",
			zap.Int("owner", int(m.owner)),
			zap.Int("count", m.count))
		return palerrors.ResourceError(palerrors.OpMutex, "mutex destroyed while locked", nil)
	}
	return nil
}

// Drop implements resource.Dropper.
func (m *Mutex) Drop() error {
	return m.Delete()
}

// Owner returns the owning thread and its recursion depth, or 0, 0 when
// unlocked.
func (m *Mutex) Owner() (threads.ThreadID, int) {
	m.guard.Lock()
	defer m.guard.Unlock()
	return m.owner, m.count
}
