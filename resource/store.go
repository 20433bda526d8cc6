package resource

import (
	"errors"
	"sync"
)

var (
	ErrClosed = errors.New("resource store closed")
	ErrFull   = errors.New("resource store full")
)

// Store is an in-memory slot allocator mapping handles to values.
type Store struct {
	entries  []entry
	freeList []uint32
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value any
	gen   uint32
	valid bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Create stores a value and returns a handle.
func (s *Store) Create(value any) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	if n := len(s.freeList); n > 0 {
		idx := s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
		e := &s.entries[idx]
		e.value = value
		e.valid = true
		return makeHandle(idx, e.gen), nil
	}

	if len(s.entries) >= maxEntries {
		return 0, ErrFull
	}

	s.entries = append(s.entries, entry{value: value, valid: true})
	return makeHandle(uint32(len(s.entries)-1), 0), nil
}

// lookup returns the live entry for h. Caller holds s.mu.
func (s *Store) lookup(h Handle) (*entry, bool) {
	idx, ok := h.index()
	if !ok || int(idx) >= len(s.entries) {
		return nil, false
	}
	e := &s.entries[idx]
	if !e.valid || e.gen&genMask != h.generation() {
		return nil, false
	}
	return e, true
}

// Get retrieves a value by handle.
func (s *Store) Get(h Handle) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.lookup(h)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Drop removes a value and returns it. The slot's generation advances so
// h stays invalid after the slot is reused.
func (s *Store) Drop(h Handle) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(h)
	if !ok {
		return nil, false
	}

	value := e.value
	e.value = nil
	e.valid = false
	e.gen++
	idx, _ := h.index()
	s.freeList = append(s.freeList, idx)

	return value, true
}

// Len returns the number of live values.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries) - len(s.freeList)
}

// Each iterates over live values until fn returns false.
// fn must not call back into the store.
func (s *Store) Each(fn func(Handle, any) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, e := range s.entries {
		if e.valid {
			if !fn(makeHandle(uint32(i), e.gen), e.value) {
				break
			}
		}
	}
}

// Close stops accepting new values and returns the ones still stored.
func (s *Store) Close() []any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var remaining []any
	for i := range s.entries {
		if s.entries[i].valid {
			remaining = append(remaining, s.entries[i].value)
		}
	}

	s.entries = nil
	s.freeList = nil
	return remaining
}
