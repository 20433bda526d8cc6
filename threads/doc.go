// Package threads spawns and cancels host threads with explicit priority.
//
// Every spawned thread is a goroutine locked to its own OS thread for its
// whole life, so it has a stable host id (the Linux TID), carries its own
// SCHED_RR priority and disappears with the goroutine:
//
//	m := threads.NewManager()
//	id, err := m.Spawn(&threads.Descriptor{
//		Entry: func(ctx context.Context, arg any) {
//			for ctx.Err() == nil {
//				poll(arg)
//			}
//		},
//		Arg:       dev,
//		StackSize: 32 * 1024,
//		Priority:  threads.PriorityHigh,
//	})
//
// Cancellation is cooperative. Terminate cancels the thread's context and
// interrupts a blocking system call with SIGURG; the entry must return once
// it sees ctx canceled.
//
// Stack sizes are checked against MinStackSize but otherwise only recorded,
// since goroutine stacks grow on demand.
package threads
