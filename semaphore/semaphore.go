// Package semaphore provides a process-local counting semaphore with
// absolute-deadline timed acquisition.
package semaphore

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	palerrors "github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/internal/logging"
	"github.com/wippyai/palrtos/internal/syncutil"
	"github.com/wippyai/palrtos/timebase"
)

// MaxCount is the largest count a semaphore can hold (SEM_VALUE_MAX).
const MaxCount = math.MaxInt32

// Semaphore is a counting semaphore. The zero value is not usable; call New.
type Semaphore struct {
	// weighted holds MaxCount-count units at all times, so its free
	// capacity is the semaphore count.
	weighted  *semaphore.Weighted
	release   syncutil.Mutex
	available atomic.Int32
	destroyed atomic.Bool
}

// New returns a semaphore holding initial tokens.
func New(initial uint32) (*Semaphore, error) {
	if initial > MaxCount {
		return nil, palerrors.New(palerrors.OpSemaphore, palerrors.KindInvalidArgument).
			Value(initial).
			Detail("initial count %d exceeds %d", initial, MaxCount).
			Build()
	}

	w := semaphore.NewWeighted(MaxCount)
	if !w.TryAcquire(int64(MaxCount - initial)) {
		return nil, palerrors.GenericFailure(palerrors.OpSemaphore, "reserve unavailable capacity", nil)
	}

	s := &Semaphore{weighted: w}
	s.available.Store(int32(initial))
	return s, nil
}

// Wait takes one token, waiting at most timeoutMs milliseconds
// (timebase.WaitForever for no deadline). On success it returns the tokens
// left afterwards; the figure is informational only, other waiters and
// releasers may have changed it by the time the caller looks. On timeout it
// returns 0.
func (s *Semaphore) Wait(timeoutMs uint32) (int32, error) {
	return s.WaitContext(context.Background(), timeoutMs)
}

// WaitContext is Wait bounded additionally by ctx.
func (s *Semaphore) WaitContext(ctx context.Context, timeoutMs uint32) (int32, error) {
	if s.destroyed.Load() {
		return 0, palerrors.ParameterError(palerrors.OpSemaphore, "semaphore destroyed")
	}

	err := timebase.AcquireWithin(ctx, timeoutMs, func() bool {
		return s.weighted.TryAcquire(1)
	}, func(c context.Context) error {
		return s.weighted.Acquire(c, 1)
	})
	switch {
	case err == nil:
	case errors.Is(err, timebase.ErrDeadlinePassed):
		return 0, palerrors.Timeout(palerrors.OpSemaphore, timeoutMs)
	default:
		return 0, palerrors.Wrap(palerrors.OpSemaphore, palerrors.KindParameterError, err, "wait")
	}

	return s.available.Add(-1), nil
}

// Release returns one token. A semaphore already at MaxCount reports a
// GenericFailure.
func (s *Semaphore) Release() error {
	if s.destroyed.Load() {
		return palerrors.ParameterError(palerrors.OpSemaphore, "semaphore destroyed")
	}

	s.release.Lock()
	defer s.release.Unlock()

	// available never trails the true count, so this check also keeps
	// weighted.Release from going below zero held units.
	if s.available.Load() >= MaxCount {
		logging.Named("semaphore").Error("release would exceed maximum count",
			zap.Int32("max", MaxCount))
		return palerrors.GenericFailure(palerrors.OpSemaphore, "maximum count exceeded", nil)
	}
	s.available.Add(1)
	s.weighted.Release(1)
	return nil
}

// Available returns the current token count. Like the count Wait returns,
// it may be stale as soon as it is read.
func (s *Semaphore) Available() int32 {
	return s.available.Load()
}

// Delete destroys the semaphore. Deleting twice is a ResourceError.
// Waiters blocked at the time keep waiting until their deadline.
func (s *Semaphore) Delete() error {
	if s.destroyed.Swap(true) {
		return palerrors.ResourceError(palerrors.OpSemaphore, "semaphore already destroyed", nil)
	}
	return nil
}

// Drop implements resource.Dropper.
func (s *Semaphore) Drop() error {
	return s.Delete()
}
