// Package conv provides safe integer conversion helpers for the
// pool-of-offsets arenas.
//
// These functions perform bounds checking before narrowing integer
// conversions to prevent silent overflow. They panic on overflow since
// this indicates a programming error (an arena slot count exceeding
// what an Offset can address), not a reachable runtime condition.
package conv

import "math"

// IntToInt32 safely converts a slice length to the int32 width
// pool.Offset is built on. Panics if n < 0 or n > math.MaxInt32.
//
//go:inline
func IntToInt32(n int) int32 {
	if n < 0 || int64(n) > math.MaxInt32 {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}
