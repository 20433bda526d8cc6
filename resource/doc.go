// Package resource provides the opaque handle tables behind the palrtos
// boundary surface.
//
// Callers never hold pointers to mutexes, semaphores or timers; they hold a
// Handle, a uint32 where 0 always means "invalid or already released".
//
// # Handle Table
//
// A Table maps handles of one Class to Go values:
//
//	mutexes := resource.NewTable[*mutex.Mutex](resource.ClassMutex)
//
//	h, err := mutexes.Insert(m)
//	m, ok := mutexes.Get(h)
//
//	// Remove releases the handle; the value is now owned by the caller
//	m, ok = mutexes.Remove(h)
//
// # Stale Handles
//
// Slots are reused, but every handle carries the generation of its slot.
// Once removed, a handle stays invalid even after another value lands in
// the same slot, so a double delete is always detected.
//
// # Observers
//
//	mutexes.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//		log.Printf("%s %d event %d", e.Class, e.Handle, e.Type)
//	}))
//
// # Teardown
//
// Close drops every value still present, calling Drop on those that
// implement Dropper, and returns the combined Drop errors.
package resource
