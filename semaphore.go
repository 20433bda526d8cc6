package palrtos

import (
	"github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/resource"
	"github.com/wippyai/palrtos/semaphore"
)

// SemaphoreID is an opaque semaphore handle. 0 is invalid.
type SemaphoreID resource.Handle

// SemaphoreCreate creates a counting semaphore holding count tokens.
func (r *RTOS) SemaphoreCreate(count uint32) (SemaphoreID, error) {
	s, err := semaphore.New(count)
	if err != nil {
		return 0, err
	}
	h, err := r.semaphores.Insert(s)
	if err != nil {
		_ = s.Delete()
		return 0, errors.Wrap(errors.OpSemaphore, errors.KindNoMemory, err, "allocate handle")
	}
	return SemaphoreID(h), nil
}

func (r *RTOS) lookupSemaphore(id SemaphoreID) (*semaphore.Semaphore, error) {
	s, ok := r.semaphores.Get(resource.Handle(id))
	if !ok {
		return nil, badHandle(errors.OpSemaphore, errors.KindInvalidArgument, resource.Handle(id))
	}
	return s, nil
}

// SemaphoreWait takes a token from id, waiting at most timeoutMs
// milliseconds. It returns the approximate number of tokens left; on
// timeout the count is 0.
func (r *RTOS) SemaphoreWait(id SemaphoreID, timeoutMs uint32) (int32, error) {
	s, err := r.lookupSemaphore(id)
	if err != nil {
		return 0, err
	}
	return s.Wait(timeoutMs)
}

// SemaphoreRelease returns a token to id.
func (r *RTOS) SemaphoreRelease(id SemaphoreID) error {
	s, err := r.lookupSemaphore(id)
	if err != nil {
		return err
	}
	return s.Release()
}

// SemaphoreDelete destroys the semaphore *id and sets *id to 0.
func (r *RTOS) SemaphoreDelete(id *SemaphoreID) error {
	if id == nil || *id == 0 {
		return errors.NullHandle(errors.OpSemaphore, errors.KindResourceError)
	}
	s, ok := r.semaphores.Remove(resource.Handle(*id))
	if !ok {
		return badHandle(errors.OpSemaphore, errors.KindResourceError, resource.Handle(*id))
	}
	*id = 0
	return s.Delete()
}
