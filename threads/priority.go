package threads

import (
	"fmt"

	"github.com/wippyai/palrtos/errors"
)

// Priority is one of the fixed abstract priority levels.
type Priority uint8

const (
	PriorityIdle Priority = iota
	PriorityLow
	PriorityReservedTRNG
	PriorityBelowNormal
	PriorityNormal
	PriorityAboveNormal
	PriorityReservedDNS
	PriorityReservedSockets
	PriorityHigh
	PriorityReservedHighResTimer
	PriorityRealtime

	NumPriorities = int(PriorityRealtime) + 1
)

var priorityNames = [NumPriorities]string{
	"Idle", "Low", "ReservedTRNG", "BelowNormal", "Normal", "AboveNormal",
	"ReservedDNS", "ReservedSockets", "High", "ReservedHighResTimer", "Realtime",
}

// Valid reports whether p is within the enumeration.
func (p Priority) Valid() bool {
	return int(p) < NumPriorities
}

func (p Priority) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Priority(%d)", uint8(p))
	}
	return priorityNames[p]
}

// Host priority bounds for SCHED_RR on Linux.
const (
	MinHostPriority = 1
	MaxHostPriority = 99
)

// DefaultPriorities maps each level onto SCHED_RR priorities 7 through 17.
var DefaultPriorities = [NumPriorities]int{7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17}

// PriorityTable maps abstract levels to host priorities. It is immutable
// once built.
type PriorityTable struct {
	levels [NumPriorities]int
}

// NewPriorityTable validates levels and returns the table. Host priorities
// must lie in [MinHostPriority, MaxHostPriority] and never decrease from one
// level to the next.
func NewPriorityTable(levels [NumPriorities]int) (*PriorityTable, error) {
	for i, v := range levels {
		if v < MinHostPriority || v > MaxHostPriority {
			return nil, errors.New(errors.OpThread, errors.KindInvalidArgument).
				Value(v).
				Detail("host priority %d for %s outside [%d, %d]", v, Priority(i), MinHostPriority, MaxHostPriority).
				Build()
		}
		if i > 0 && v < levels[i-1] {
			return nil, errors.New(errors.OpThread, errors.KindInvalidArgument).
				Value(v).
				Detail("host priority for %s (%d) below %s (%d)", Priority(i), v, Priority(i-1), levels[i-1]).
				Build()
		}
	}
	return &PriorityTable{levels: levels}, nil
}

// DefaultPriorityTable returns the table built from DefaultPriorities.
func DefaultPriorityTable() *PriorityTable {
	return &PriorityTable{levels: DefaultPriorities}
}

// Translate returns the host priority for p. p must be Valid.
func (t *PriorityTable) Translate(p Priority) int {
	return t.levels[p]
}

// Levels returns a copy of the mapping.
func (t *PriorityTable) Levels() [NumPriorities]int {
	return t.levels
}
