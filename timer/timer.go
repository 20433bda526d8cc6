package timer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/internal/logging"
	"github.com/wippyai/palrtos/internal/syncutil"
	"github.com/wippyai/palrtos/threads"
	"github.com/wippyai/palrtos/timebase"
)

// Kind selects whether a timer fires once or repeatedly.
type Kind int

const (
	OneShot Kind = iota
	Periodic
)

func (k Kind) String() string {
	switch k {
	case OneShot:
		return "oneshot"
	case Periodic:
		return "periodic"
	default:
		return "unknown"
	}
}

// Callback is invoked with the argument given to Create. It never runs on
// the goroutine that called Start.
type Callback func(arg any)

// Timer is a callback timer. The strategy serving it is picked on every
// Start from its kind and interval.
type Timer struct {
	sched  *Scheduler
	cb     Callback
	arg    any
	kernel kernelTimer
	fine   *fineRun
	kind   Kind

	mu      syncutil.Mutex
	deleted bool
}

type fineRun struct {
	stop     chan struct{}
	interval uint32
}

// Create returns a stopped timer. Nothing is armed until Start.
func (s *Scheduler) Create(cb Callback, arg any, kind Kind) (*Timer, error) {
	if cb == nil {
		return nil, errors.InvalidArgument(errors.OpTimer, "nil callback")
	}
	if kind != OneShot && kind != Periodic {
		return nil, errors.New(errors.OpTimer, errors.KindInvalidArgument).
			Value(kind).
			Detail("unknown timer kind %d", int(kind)).
			Build()
	}
	return &Timer{sched: s, cb: cb, arg: arg, kind: kind}, nil
}

// Kind returns the timer kind.
func (t *Timer) Kind() Kind { return t.kind }

// FineGrained reports whether the timer currently runs on the fine-grained
// thread.
func (t *Timer) FineGrained() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fine != nil
}

// Armed reports whether the timer will fire again.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fine != nil || t.kernel.armed()
}

// Start arms the timer to fire every intervalMs milliseconds (once for a
// OneShot timer). A timer that is already armed is stopped first.
func (t *Timer) Start(intervalMs uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.deleted {
		return errors.NullHandle(errors.OpTimer, errors.KindInvalidArgument)
	}
	if intervalMs == 0 {
		return errors.InvalidArgument(errors.OpTimer, "zero interval")
	}
	if err := t.stopLocked(); err != nil {
		return err
	}

	if t.kind == Periodic && intervalMs <= t.sched.threshold {
		return t.startFineLocked(intervalMs)
	}

	t.kernel.arm(time.Duration(intervalMs)*time.Millisecond, t.kind == Periodic, t.invoke)
	logging.Named("timer").Debug("kernel timer armed",
		zap.Stringer("kind", t.kind),
		zap.Uint32("interval_ms", intervalMs))
	return nil
}

func (t *Timer) startFineLocked(intervalMs uint32) error {
	log := logging.Named("timer")

	if !t.sched.slot.tryAcquire(t, intervalMs) {
		_, busy := t.sched.slot.current()
		log.Error("no fine-grained timer left",
			zap.Uint32("interval_ms", intervalMs),
			zap.Uint32("active_interval_ms", busy))
		return errors.NoFineGrainedTimerLeft(intervalMs)
	}

	run := &fineRun{stop: make(chan struct{}), interval: intervalMs}
	tid, err := t.sched.threads.Spawn(&threads.Descriptor{
		Entry:     t.fineLoop,
		Arg:       run,
		StackSize: t.sched.stackSize,
		Priority:  t.sched.priority,
	})
	if err != nil {
		t.sched.slot.release(t)
		log.Error("fine-grained thread not started", zap.Error(err))
		return err
	}

	t.sched.slot.bind(t, tid)
	t.fine = run
	log.Debug("fine-grained timer started",
		zap.Int("tid", int(tid)),
		zap.Uint32("interval_ms", intervalMs))
	return nil
}

// fineLoop runs on the fine-grained thread until its run is stopped.
func (t *Timer) fineLoop(ctx context.Context, arg any) {
	run := arg.(*fineRun)
	target := timebase.Now(timebase.ClockMonotonic)

	for {
		// Advance from the previous target, never from now, so callback
		// time does not accumulate as drift.
		target = target.AddMillis(run.interval)
		if err := timebase.SleepUntil(ctx, target); err != nil {
			if ctx.Err() == nil {
				logging.Named("timer").Error("fine-grained sleep failed", zap.Error(err))
			}
			return
		}

		select {
		case <-run.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		t.invoke()
	}
}

func (t *Timer) invoke() {
	defer func() {
		if r := recover(); r != nil {
			logging.Named("timer").Error("timer callback panicked",
				zap.Stringer("kind", t.kind),
				zap.Any("panic", r))
		}
	}()
	t.cb(t.arg)
}

// Stop disarms the timer. Stopping a stopped timer succeeds. A callback
// already running when Stop is called is not waited for.
func (t *Timer) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.deleted {
		return errors.NullHandle(errors.OpTimer, errors.KindInvalidArgument)
	}
	return t.stopLocked()
}

func (t *Timer) stopLocked() error {
	var err error
	if run := t.fine; run != nil {
		t.fine = nil
		close(run.stop)

		tid, ok := t.sched.slot.release(t)
		if !ok {
			logging.Named("timer").Error("fine-grained slot owned by another timer")
			return errors.ResourceError(errors.OpTimer, "fine-grained slot owned by another timer", nil)
		}
		if tid != 0 {
			err = t.sched.threads.Terminate(tid)
		}
		logging.Named("timer").Debug("fine-grained timer stopped", zap.Int("tid", int(tid)))
	}

	t.kernel.disarm()
	return err
}

// Delete stops the timer and invalidates it. Deleting twice is a
// ResourceError.
func (t *Timer) Delete() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.deleted {
		return errors.ResourceError(errors.OpTimer, "timer already deleted", nil)
	}
	t.deleted = true
	return t.stopLocked()
}

// Drop implements resource.Dropper.
func (t *Timer) Drop() error {
	return t.Delete()
}
