package resource

// Handle is an opaque reference to an object in a table.
// Handle 0 is reserved and always invalid.
//
// The low indexBits carry the slot index plus one, the remaining bits a
// generation counter, so a released handle never aliases the next object
// stored in the same slot.
type Handle uint32

const (
	indexBits  = 20
	indexMask  = 1<<indexBits - 1
	maxEntries = indexMask
	genMask    = 1<<(32-indexBits) - 1
)

func makeHandle(index uint32, gen uint32) Handle {
	return Handle((gen&genMask)<<indexBits | (index + 1))
}

func (h Handle) index() (uint32, bool) {
	slot := uint32(h) & indexMask
	if slot == 0 {
		return 0, false
	}
	return slot - 1, true
}

func (h Handle) generation() uint32 {
	return uint32(h) >> indexBits
}

// Class identifies what kind of primitive a table holds.
type Class uint8

const (
	ClassMutex Class = iota + 1
	ClassSemaphore
	ClassTimer
)

func (c Class) String() string {
	switch c {
	case ClassMutex:
		return "mutex"
	case ClassSemaphore:
		return "semaphore"
	case ClassTimer:
		return "timer"
	}
	return "unknown"
}

// EventType identifies a handle lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

// Event represents a handle lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	Class  Class
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(Event)

// OnResourceEvent calls f(e).
func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Dropper is optionally implemented by values that need cleanup when a
// table is closed with the value still in it.
type Dropper interface {
	Drop() error
}
