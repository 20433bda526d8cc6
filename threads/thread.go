package threads

import (
	"context"
	"errors"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	palerrors "github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/internal/logging"
	"github.com/wippyai/palrtos/internal/syncutil"
)

// ThreadID is the host (Linux) thread id. 0 is never a valid thread.
type ThreadID int

// MinStackSize is the smallest stack size Spawn accepts.
const MinStackSize = 16 * 1024

// Entry is a thread body. ctx is canceled when the thread is terminated;
// long-running entries must watch it.
type Entry func(ctx context.Context, arg any)

// Descriptor describes a thread to launch.
type Descriptor struct {
	Entry     Entry
	Arg       any
	StackSize uint32
	Priority  Priority
}

// Scheduling selects how Spawn configures the new thread.
type Scheduling int

const (
	// SchedulingRoundRobin applies SCHED_RR with the translated priority.
	// Needs CAP_SYS_NICE or a sufficient RLIMIT_RTPRIO.
	SchedulingRoundRobin Scheduling = iota
	// SchedulingInherit keeps the creating process's policy and priority.
	SchedulingInherit
)

// Thread is a running spawned thread.
type Thread struct {
	desc   *Descriptor
	cancel context.CancelFunc
	done   chan struct{}
	id     ThreadID
}

// ID returns the host thread id.
func (t *Thread) ID() ThreadID { return t.id }

// Descriptor returns the launch descriptor the thread runs with.
func (t *Thread) Descriptor() Descriptor { return *t.desc }

// Done is closed when the entry function has returned.
func (t *Thread) Done() <-chan struct{} { return t.done }

// Manager spawns and cancels threads.
type Manager struct {
	priorities *PriorityTable
	threads    map[ThreadID]*Thread
	mu         syncutil.Mutex
	scheduling Scheduling
}

// Option configures a Manager.
type Option func(*Manager)

// WithPriorities sets the priority table.
func WithPriorities(t *PriorityTable) Option {
	return func(m *Manager) {
		if t != nil {
			m.priorities = t
		}
	}
}

// WithScheduling sets the scheduling mode.
func WithScheduling(s Scheduling) Option {
	return func(m *Manager) { m.scheduling = s }
}

// NewManager creates a Manager using DefaultPriorityTable and SCHED_RR
// unless configured otherwise.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		priorities: DefaultPriorityTable(),
		threads:    make(map[ThreadID]*Thread),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Priorities returns the manager's priority table.
func (m *Manager) Priorities() *PriorityTable {
	return m.priorities
}

// CurrentID returns the calling OS thread's id. Goroutines not locked to a
// thread may observe a different id on every call.
func CurrentID() ThreadID {
	return ThreadID(unix.Gettid())
}

type startResult struct {
	err error
	id  ThreadID
}

// Spawn starts desc.Entry on a dedicated OS thread and returns once the
// thread is running with its scheduling applied. The thread is detached:
// it is reclaimed when Entry returns.
//
// The descriptor is copied; the caller may reuse desc as soon as Spawn
// returns.
func (m *Manager) Spawn(desc *Descriptor) (ThreadID, error) {
	if desc == nil || desc.Entry == nil {
		return 0, palerrors.InvalidArgument(palerrors.OpThread, "descriptor without entry function")
	}
	if !desc.Priority.Valid() {
		return 0, palerrors.New(palerrors.OpThread, palerrors.KindInvalidArgument).
			Value(desc.Priority).
			Detail("unknown priority %s", desc.Priority).
			Build()
	}
	if desc.StackSize < MinStackSize {
		return 0, palerrors.GenericFailure(palerrors.OpThread, "stack size below host minimum", nil)
	}

	d := *desc
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan startResult, 1)

	go m.run(ctx, cancel, &d, started)

	res := <-started
	if res.err != nil {
		logging.Named("threads").Error("spawn failed",
			zap.Stringer("priority", d.Priority),
			zap.Error(res.err))
		return 0, res.err
	}

	logging.Named("threads").Debug("spawned",
		zap.Int("tid", int(res.id)),
		zap.Stringer("priority", d.Priority),
		zap.Uint32("stack_size", d.StackSize))
	return res.id, nil
}

func (m *Manager) run(ctx context.Context, cancel context.CancelFunc, d *Descriptor, started chan<- startResult) {
	// Never unlocked: the OS thread is torn down with this goroutine, which
	// also discards any scheduling change made below.
	runtime.LockOSThread()

	tid := CurrentID()
	if tid <= 0 {
		cancel()
		started <- startResult{err: palerrors.GenericFailure(palerrors.OpThread, "host returned invalid thread id", nil)}
		return
	}

	if err := m.applyScheduling(tid, d.Priority); err != nil {
		cancel()
		started <- startResult{err: err}
		return
	}

	th := &Thread{
		id:     tid,
		desc:   d,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	m.mu.Lock()
	m.threads[tid] = th
	m.mu.Unlock()

	started <- startResult{id: tid}

	defer func() {
		m.mu.Lock()
		delete(m.threads, tid)
		m.mu.Unlock()
		cancel()
		close(th.done)
	}()
	defer func() {
		if r := recover(); r != nil {
			logging.Named("threads").Error("thread entry panicked",
				zap.Int("tid", int(tid)),
				zap.Any("panic", r))
		}
	}()

	d.Entry(ctx, d.Arg)
}

func (m *Manager) applyScheduling(tid ThreadID, p Priority) error {
	if m.scheduling == SchedulingInherit {
		return nil
	}

	host := m.priorities.Translate(p)
	attr := unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_RR,
		Priority: uint32(host),
	}
	err := unix.SchedSetAttr(int(tid), &attr, 0)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.EPERM):
		return palerrors.PriorityDenied(host, err)
	default:
		return palerrors.ResourceError(palerrors.OpThread, "apply SCHED_RR", err)
	}
}

// Terminate requests cancellation of thread id. The thread's context is
// canceled and the thread is sent SIGURG so a blocking host call returns
// EINTR and the thread can observe the cancellation.
//
// Terminating the calling thread is a successful no-op, as is terminating a
// thread that already exited.
func (m *Manager) Terminate(id ThreadID) error {
	if id == CurrentID() {
		return nil
	}

	m.mu.Lock()
	th, ok := m.threads[id]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	th.cancel()
	err := unix.Tgkill(unix.Getpid(), int(id), unix.SIGURG)
	if err != nil && !errors.Is(err, unix.ESRCH) {
		logging.Named("threads").Error("terminate failed",
			zap.Int("tid", int(id)),
			zap.Error(err))
		return palerrors.ResourceError(palerrors.OpThread, "signal thread", err)
	}

	logging.Named("threads").Debug("terminate requested", zap.Int("tid", int(id)))
	return nil
}

// Lookup returns a running thread spawned by m.
func (m *Manager) Lookup(id ThreadID) (*Thread, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	th, ok := m.threads[id]
	return th, ok
}

// Running returns the number of spawned threads that have not exited.
func (m *Manager) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.threads)
}
