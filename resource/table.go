package resource

import (
	"sync"

	"go.uber.org/multierr"
)

// Table maps handles of one Class to values of type T, with observer
// support for lifecycle events.
type Table[T any] struct {
	store     *Store
	observers []Observer
	obsMu     sync.RWMutex
	class     Class
}

// NewTable creates an empty table for class.
func NewTable[T any](class Class) *Table[T] {
	return &Table[T]{
		store: NewStore(),
		class: class,
	}
}

// Class returns the class of values held by the table.
func (t *Table[T]) Class() Class {
	return t.class
}

// Insert adds a value and returns its handle.
func (t *Table[T]) Insert(value T) (Handle, error) {
	h, err := t.store.Create(value)
	if err != nil {
		return 0, err
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: h,
		Class:  t.class,
		Value:  value,
	})

	return h, nil
}

// Get retrieves a value by handle.
func (t *Table[T]) Get(h Handle) (T, bool) {
	var zero T
	v, ok := t.store.Get(h)
	if !ok {
		return zero, false
	}
	return v.(T), true
}

// Remove drops a handle and returns its value. The value itself is not
// destroyed; the caller owns it from here.
func (t *Table[T]) Remove(h Handle) (T, bool) {
	var zero T
	v, ok := t.store.Drop(h)
	if !ok {
		return zero, false
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: h,
		Class:  t.class,
		Value:  v,
	})

	return v.(T), true
}

// Handles returns a snapshot of the live handles.
func (t *Table[T]) Handles() []Handle {
	var hs []Handle
	t.store.Each(func(h Handle, _ any) bool {
		hs = append(hs, h)
		return true
	})
	return hs
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	return t.store.Len()
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Close stops accepting values and drops whatever is left, calling Drop on
// values that implement Dropper. Drop failures are combined.
func (t *Table[T]) Close() error {
	var err error
	for _, v := range t.store.Close() {
		if d, ok := v.(Dropper); ok {
			err = multierr.Append(err, d.Drop())
		}
	}
	return err
}

func (t *Table[T]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
