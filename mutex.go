package palrtos

import (
	"github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/mutex"
	"github.com/wippyai/palrtos/resource"
)

// MutexID is an opaque mutex handle. 0 is invalid.
type MutexID resource.Handle

// MutexCreate creates a recursive mutex.
func (r *RTOS) MutexCreate() (MutexID, error) {
	m, err := mutex.New()
	if err != nil {
		return 0, err
	}
	h, err := r.mutexes.Insert(m)
	if err != nil {
		_ = m.Delete()
		return 0, errors.Wrap(errors.OpMutex, errors.KindNoMemory, err, "allocate handle")
	}
	return MutexID(h), nil
}

func (r *RTOS) lookupMutex(id MutexID) (*mutex.Mutex, error) {
	m, ok := r.mutexes.Get(resource.Handle(id))
	if !ok {
		return nil, badHandle(errors.OpMutex, errors.KindInvalidArgument, resource.Handle(id))
	}
	return m, nil
}

// MutexWait locks id, waiting at most timeoutMs milliseconds
// (timebase.WaitForever blocks). The owning thread may lock again.
func (r *RTOS) MutexWait(id MutexID, timeoutMs uint32) error {
	m, err := r.lookupMutex(id)
	if err != nil {
		return err
	}
	return m.Wait(timeoutMs)
}

// MutexRelease unlocks id once.
func (r *RTOS) MutexRelease(id MutexID) error {
	m, err := r.lookupMutex(id)
	if err != nil {
		return err
	}
	return m.Release()
}

// MutexDelete destroys the mutex *id and sets *id to 0. A mutex that is
// still locked is destroyed anyway and reported as a ResourceError.
func (r *RTOS) MutexDelete(id *MutexID) error {
	if id == nil || *id == 0 {
		return errors.NullHandle(errors.OpMutex, errors.KindResourceError)
	}
	m, ok := r.mutexes.Remove(resource.Handle(*id))
	if !ok {
		return badHandle(errors.OpMutex, errors.KindResourceError, resource.Handle(*id))
	}
	*id = 0
	return m.Delete()
}
