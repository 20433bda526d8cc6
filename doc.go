// Package palrtos is the synchronization and timer layer of a platform
// abstraction layer for Linux hosts.
//
// It gives RTOS-style code a uniform, handle-based API for threads,
// recursive mutexes, counting semaphores and callback timers. Timed waits
// take a relative timeout in milliseconds and turn it into an absolute
// deadline once, so signal interruptions and early wakeups never surface as
// timeouts.
//
// # Architecture Overview
//
//	palrtos/             Handle-based facade (this package)
//	├── threads/         Thread spawn/terminate and the priority table
//	├── mutex/           Recursive timed mutex
//	├── semaphore/       Counting timed semaphore
//	├── timer/           Kernel-backed and fine-grained callback timers
//	├── timebase/        Tick counter, deadlines, interruption-safe sleeps
//	├── atomicops/       Fetch-and-add
//	├── resource/        Generation-checked handle tables
//	├── errors/          Structured errors and the Status vocabulary
//	└── cmd/palmon/      Timer bench and priority inspection CLI
//
// # Quick Start
//
//	rtos, err := palrtos.New(palrtos.Config{})
//	if err != nil {
//		return err
//	}
//	defer rtos.Close()
//
//	mtx, _ := rtos.MutexCreate()
//	if err := rtos.MutexWait(mtx, 50); errors.Is(err, palerrors.ErrTimeout) {
//		// not acquired within 50ms
//	}
//	_ = rtos.MutexRelease(mtx)
//	_ = rtos.MutexDelete(&mtx) // mtx is now 0
//
// # Timers
//
// A periodic timer of 100 ms or less runs on the single fine-grained
// thread; everything else is kernel backed:
//
//	tm, _ := rtos.TimerCreate(onTick, nil, timer.Periodic)
//	err := rtos.TimerStart(tm, 10)
//
// Only one fine-grained timer can run at a time. Starting a second one
// fails with NoFineGrainedTimerLeft.
//
// # Threads
//
// Spawned threads get SCHED_RR with the translated priority, which needs
// CAP_SYS_NICE. Without it, thread creation fails with PriorityDenied; set
// Config.Scheduling to threads.SchedulingInherit to keep the process's own
// policy instead.
//
// # Status Codes
//
// Every operation returns a Go error. errors.StatusOf maps it onto the
// closed Status vocabulary for callers bridging to status-code APIs.
package palrtos
