// Package timer implements callback timers with two strategies.
//
// A Periodic timer whose interval is at or below the scheduler's threshold
// (100 ms by default) runs on a dedicated high-priority thread that sleeps
// until absolute CLOCK_MONOTONIC targets, each exactly one interval after
// the previous one. Only one such fine-grained timer may run per Scheduler;
// a second one fails with NoFineGrainedTimerLeft and callers needing more
// must multiplex through the one they have.
//
// Every other timer is kernel backed: it fires on a runtime timer goroutine
// at start + k*interval, or once for a OneShot timer.
//
//	sched := timer.NewScheduler(threads.NewManager())
//
//	t, err := sched.Create(func(arg any) { tick(arg) }, nil, timer.Periodic)
//	err = t.Start(10) // fine-grained
//	err = t.Stop()
//	err = t.Delete()
//
// A fired OneShot timer is not deleted; its owner still calls Delete.
package timer
