package palrtos

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/internal/logging"
	"github.com/wippyai/palrtos/mutex"
	"github.com/wippyai/palrtos/resource"
	"github.com/wippyai/palrtos/semaphore"
	"github.com/wippyai/palrtos/threads"
	"github.com/wippyai/palrtos/timer"
)

// Config configures an RTOS. The zero value is usable.
type Config struct {
	// Logger receives library logs. nil keeps the current library logger.
	Logger *zap.Logger
	// Priorities maps abstract priorities to SCHED_RR levels. nil selects
	// threads.DefaultPriorityTable.
	Priorities *threads.PriorityTable
	// Scheduling selects how spawned threads are scheduled.
	Scheduling threads.Scheduling
	// FineGrainedThreshold is the largest periodic interval in
	// milliseconds served by the fine-grained thread. 0 selects 100.
	FineGrainedThreshold uint32
	// FineGrainedStackSize is the fine-grained thread's stack size.
	// 0 selects threads.MinStackSize.
	FineGrainedStackSize uint32
}

// RTOS owns the handle tables of one platform layer instance.
type RTOS struct {
	threads    *threads.Manager
	timers     *timer.Scheduler
	mutexes    *resource.Table[*mutex.Mutex]
	semaphores *resource.Table[*semaphore.Semaphore]
	timerTable *resource.Table[*timer.Timer]
	log        *zap.Logger
}

// New initializes an RTOS.
func New(cfg Config) (*RTOS, error) {
	if cfg.Logger != nil {
		logging.SetLogger(cfg.Logger)
	}
	if cfg.Scheduling != threads.SchedulingRoundRobin && cfg.Scheduling != threads.SchedulingInherit {
		return nil, errors.New(errors.OpThread, errors.KindInvalidArgument).
			Value(cfg.Scheduling).
			Detail("unknown scheduling mode %d", int(cfg.Scheduling)).
			Build()
	}

	m := threads.NewManager(
		threads.WithPriorities(cfg.Priorities),
		threads.WithScheduling(cfg.Scheduling),
	)

	r := &RTOS{
		threads: m,
		timers: timer.NewScheduler(m,
			timer.WithThreshold(cfg.FineGrainedThreshold),
			timer.WithStackSize(cfg.FineGrainedStackSize),
		),
		mutexes:    resource.NewTable[*mutex.Mutex](resource.ClassMutex),
		semaphores: resource.NewTable[*semaphore.Semaphore](resource.ClassSemaphore),
		timerTable: resource.NewTable[*timer.Timer](resource.ClassTimer),
		log:        logging.Named("rtos"),
	}

	trace := resource.ObserverFunc(r.traceHandle)
	r.mutexes.Subscribe(trace)
	r.semaphores.Subscribe(trace)
	r.timerTable.Subscribe(trace)

	r.log.Debug("initialized",
		zap.Uint32("fine_grained_threshold_ms", r.timers.Threshold()),
		zap.Bool("inherit_scheduling", cfg.Scheduling == threads.SchedulingInherit))
	return r, nil
}

func (r *RTOS) traceHandle(e resource.Event) {
	msg := "handle created"
	if e.Type == resource.EventDropped {
		msg = "handle released"
	}
	r.log.Debug(msg,
		zap.Stringer("class", e.Class),
		zap.Uint32("handle", uint32(e.Handle)))
}

// Close deletes every timer, semaphore and mutex still allocated and
// returns the combined failures. Timers go first so no callback outlives
// the primitives it may use. Threads are not tracked and keep running.
func (r *RTOS) Close() error {
	err := multierr.Combine(
		r.timerTable.Close(),
		r.semaphores.Close(),
		r.mutexes.Close(),
	)
	if err != nil {
		r.log.Error("close", zap.Error(err))
	}
	return err
}

// TranslatePriority returns the host priority of p.
func (r *RTOS) TranslatePriority(p threads.Priority) int {
	return r.threads.Priorities().Translate(p)
}

// Threads returns the thread manager.
func (r *RTOS) Threads() *threads.Manager {
	return r.threads
}

// Timers returns the timer scheduler.
func (r *RTOS) Timers() *timer.Scheduler {
	return r.timers
}

func badHandle(op errors.Op, kind errors.Kind, h resource.Handle) error {
	return errors.New(op, kind).
		Handle(uint32(h)).
		Detail("null or released handle").
		Build()
}
