package timer

import (
	"github.com/wippyai/palrtos/internal/syncutil"
	"github.com/wippyai/palrtos/threads"
)

const (
	// DefaultThreshold is the largest periodic interval, in milliseconds,
	// served by the fine-grained thread.
	DefaultThreshold uint32 = 100
	// DefaultStackSize is the stack size requested for the fine-grained
	// thread.
	DefaultStackSize uint32 = threads.MinStackSize
	// DefaultPriority is the fine-grained thread's priority.
	DefaultPriority = threads.PriorityReservedHighResTimer
)

// Scheduler creates timers and owns the single fine-grained slot.
type Scheduler struct {
	threads   *threads.Manager
	slot      slot
	threshold uint32
	stackSize uint32
	priority  threads.Priority
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithThreshold sets the fine-grained threshold in milliseconds. 0 keeps
// the default.
func WithThreshold(ms uint32) Option {
	return func(s *Scheduler) {
		if ms > 0 {
			s.threshold = ms
		}
	}
}

// WithStackSize sets the fine-grained thread's stack size. 0 keeps the
// default.
func WithStackSize(size uint32) Option {
	return func(s *Scheduler) {
		if size > 0 {
			s.stackSize = size
		}
	}
}

// WithPriority sets the fine-grained thread's priority.
func WithPriority(p threads.Priority) Option {
	return func(s *Scheduler) { s.priority = p }
}

// NewScheduler returns a scheduler spawning its fine-grained thread through
// m.
func NewScheduler(m *threads.Manager, opts ...Option) *Scheduler {
	s := &Scheduler{
		threads:   m,
		threshold: DefaultThreshold,
		stackSize: DefaultStackSize,
		priority:  DefaultPriority,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Threshold returns the fine-grained threshold in milliseconds.
func (s *Scheduler) Threshold() uint32 { return s.threshold }

// SlotInUse reports whether a fine-grained timer is running.
func (s *Scheduler) SlotInUse() bool {
	owner, _ := s.slot.current()
	return owner != nil
}

// slot is the fine-grained capacity of a Scheduler: at most one timer owns
// it at a time.
type slot struct {
	mu       syncutil.Mutex
	owner    *Timer
	thread   threads.ThreadID
	interval uint32
}

// tryAcquire claims the slot for t.
func (s *slot) tryAcquire(t *Timer, interval uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != nil {
		return false
	}
	s.owner = t
	s.interval = interval
	s.thread = 0
	return true
}

// bind records the thread serving the slot owned by t.
func (s *slot) bind(t *Timer, tid threads.ThreadID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner == t {
		s.thread = tid
	}
}

// release frees the slot if t owns it and returns the thread that served it.
func (s *slot) release(t *Timer) (threads.ThreadID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.owner != t {
		return 0, false
	}
	tid := s.thread
	s.owner = nil
	s.thread = 0
	s.interval = 0
	return tid, true
}

func (s *slot) current() (*Timer, uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner, s.interval
}
