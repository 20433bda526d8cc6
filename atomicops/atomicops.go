// Package atomicops provides the fetch-and-add primitive callers use for
// lock-free counters.
package atomicops

import "sync/atomic"

// Add adds delta to *addr with a full barrier and returns the new value.
func Add(addr *int32, delta int32) int32 {
	return atomic.AddInt32(addr, delta)
}
