package pool

import "github.com/coregx/lexgen/internal/conv"

// Arena is a fixed-capacity, append-only allocator yielding integer
// Offsets. Capacity is fixed at construction time per spec.md S9's
// "Pool size limits" resolution: arenas are preallocated Go slices, not
// growable, and overflow is always reported as an *OverflowError rather
// than silently reallocating.
type Arena[T any] struct {
	name     string
	items    []T
	capacity int
}

// NewArena creates an arena named for diagnostics with the given fixed
// capacity. name appears in OverflowError messages.
func NewArena[T any](name string, capacity int) *Arena[T] {
	return &Arena[T]{
		name:     name,
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Alloc reserves the next slot and returns its offset along with a pointer
// to the zero-valued element for the caller to populate in place.
func (a *Arena[T]) Alloc() (Offset, *T, error) {
	if len(a.items) >= a.capacity {
		return None, nil, &OverflowError{Pool: a.name, Capacity: a.capacity}
	}
	var zero T
	a.items = append(a.items, zero)
	off := Offset(conv.IntToInt32(len(a.items) - 1))
	return off, &a.items[off], nil
}

// Get returns a pointer to the element at off, or nil if off is None or
// out of range.
func (a *Arena[T]) Get(off Offset) *T {
	if off == None || int(off) < 0 || int(off) >= len(a.items) {
		return nil
	}
	return &a.items[off]
}

// MustGet is like Get but panics on an invalid offset; used internally
// where the offset's validity is an invariant rather than user input.
func (a *Arena[T]) MustGet(off Offset) *T {
	v := a.Get(off)
	if v == nil {
		panic(&InvalidOffsetError{Pool: a.name, Offset: off})
	}
	return v
}

// Len returns the number of allocated elements.
func (a *Arena[T]) Len() int {
	return len(a.items)
}

// Cap returns the arena's fixed capacity.
func (a *Arena[T]) Cap() int {
	return a.capacity
}

// Name returns the arena's diagnostic name.
func (a *Arena[T]) Name() string {
	return a.name
}
