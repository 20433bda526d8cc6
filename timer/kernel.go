package timer

import (
	"time"

	"github.com/wippyai/palrtos/internal/syncutil"
)

// kernelTimer arms runtime timers with interval-timer semantics: the k-th
// expiry of a periodic timer is due at arm + k*interval no matter how late
// earlier expiries ran. Expiries already overdue are coalesced.
type kernelTimer struct {
	mu       syncutil.Mutex
	t        *time.Timer
	next     time.Time
	interval time.Duration
	gen      uint64
	periodic bool
}

func (k *kernelTimer) arm(interval time.Duration, periodic bool, fire func()) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.stopLocked()
	k.interval = interval
	k.periodic = periodic
	k.next = time.Now().Add(interval)
	gen := k.gen
	k.t = time.AfterFunc(interval, func() { k.expire(gen, fire) })
}

func (k *kernelTimer) expire(gen uint64, fire func()) {
	k.mu.Lock()
	if gen != k.gen {
		k.mu.Unlock()
		return
	}
	if k.periodic {
		now := time.Now()
		k.next = k.next.Add(k.interval)
		for !k.next.After(now) {
			k.next = k.next.Add(k.interval)
		}
		k.t = time.AfterFunc(k.next.Sub(now), func() { k.expire(gen, fire) })
	} else {
		k.t = nil
	}
	k.mu.Unlock()

	// A disarm that ran after the check above wins. One that lands once
	// fire has been entered cannot recall it; disarm does not wait for
	// callbacks, which may themselves stop the timer.
	if !k.current(gen) {
		return
	}
	fire()
}

func (k *kernelTimer) current(gen uint64) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return gen == k.gen
}

// disarm cancels pending expiries. Disarming an idle timer is a no-op.
func (k *kernelTimer) disarm() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.stopLocked()
}

func (k *kernelTimer) stopLocked() {
	k.gen++
	if k.t != nil {
		k.t.Stop()
		k.t = nil
	}
	k.interval = 0
	k.periodic = false
}

func (k *kernelTimer) armed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.t != nil
}
