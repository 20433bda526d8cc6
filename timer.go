package palrtos

import (
	"github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/resource"
	"github.com/wippyai/palrtos/timer"
)

// TimerID is an opaque timer handle. 0 is invalid.
type TimerID resource.Handle

// TimerCreate creates a stopped timer invoking cb(arg).
func (r *RTOS) TimerCreate(cb timer.Callback, arg any, kind timer.Kind) (TimerID, error) {
	t, err := r.timers.Create(cb, arg, kind)
	if err != nil {
		return 0, err
	}
	h, err := r.timerTable.Insert(t)
	if err != nil {
		return 0, errors.Wrap(errors.OpTimer, errors.KindNoMemory, err, "allocate handle")
	}
	return TimerID(h), nil
}

func (r *RTOS) lookupTimer(id TimerID) (*timer.Timer, error) {
	t, ok := r.timerTable.Get(resource.Handle(id))
	if !ok {
		return nil, badHandle(errors.OpTimer, errors.KindInvalidArgument, resource.Handle(id))
	}
	return t, nil
}

// TimerStart arms id with an interval of intervalMs milliseconds.
func (r *RTOS) TimerStart(id TimerID, intervalMs uint32) error {
	t, err := r.lookupTimer(id)
	if err != nil {
		return err
	}
	return t.Start(intervalMs)
}

// TimerStop disarms id.
func (r *RTOS) TimerStop(id TimerID) error {
	t, err := r.lookupTimer(id)
	if err != nil {
		return err
	}
	return t.Stop()
}

// TimerDelete stops and destroys the timer *id and sets *id to 0.
func (r *RTOS) TimerDelete(id *TimerID) error {
	if id == nil || *id == 0 {
		return errors.NullHandle(errors.OpTimer, errors.KindParameterError)
	}
	t, ok := r.timerTable.Remove(resource.Handle(*id))
	if !ok {
		return badHandle(errors.OpTimer, errors.KindParameterError, resource.Handle(*id))
	}
	*id = 0
	return t.Delete()
}
