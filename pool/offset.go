// Package pool implements the fixed-capacity, append-only arena discipline
// used throughout lexgen: every cross-entity reference is an integer Offset
// into some arena rather than a pointer, so the data is immune to
// reallocation and trivially addressable by value.
package pool

import "fmt"

// Offset identifies a slot in an arena. The sentinel None denotes absence.
// Offsets are stable for the lifetime of the arena: arenas only grow.
type Offset int32

// None is returned by nothing; it marks the absence of a reference.
const None Offset = -1

// Valid reports whether o is a real, non-sentinel offset.
func (o Offset) Valid() bool {
	return o != None
}

func (o Offset) String() string {
	if o == None {
		return "<none>"
	}
	return fmt.Sprintf("#%d", int32(o))
}
