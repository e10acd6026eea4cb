// Package term implements the terminal interner (spec.md S4.2, component
// C2): it copies terminal byte strings into a fixed-capacity pool,
// applying the '@'-escape transform, and returns the offset of the
// NUL-terminated copy.
package term

import (
	"fmt"

	"github.com/coregx/lexgen/diag"
	"github.com/coregx/lexgen/pool"
)

// MaxTotalTermLen is the terminal pool's fixed capacity in bytes
// (spec.md S3).
const MaxTotalTermLen = 8192

const escapeByte = '@'

// escapeTable maps the byte following an escapeByte to the byte that is
// actually stored, per spec.md S4.2's table. Ported from memcpy2's
// toEscape/toPut argument pair in original_source/src/regex.c.
var escapeTable = map[byte]byte{
	'_': ' ',
	'@': '@',
	'|': '|',
	'*': '*',
	'$': '$',
}

// EscapeAtEndError reports an '@' with no following byte within the
// operand being interned (spec.md S4.2: always fatal).
type EscapeAtEndError struct {
	Line, Col int
}

func (e *EscapeAtEndError) Error() string {
	return "an incomplete escape sequence at the end of a string"
}

// Position implements the line/column reporting interface cmd/lexgen uses
// to format "Error <line>:<col>: ..." diagnostics.
func (e *EscapeAtEndError) Position() (int, int) { return e.Line, e.Col }

// Pool is the fixed-capacity terminal byte arena.
type Pool struct {
	buf      []byte
	capacity int
}

// NewPool constructs an empty terminal pool with the spec-mandated
// capacity.
func NewPool() *Pool {
	return &Pool{buf: make([]byte, 0, MaxTotalTermLen), capacity: MaxTotalTermLen}
}

// Intern copies src into the pool, decoding '@'-escapes, and appends a
// terminating NUL. It returns the offset of the first stored byte.
//
// Warnings for unrecognized escape sequences are reported through sink
// immediately (non-fatal, per spec.md S4.2); an '@' at the end of src is
// reported as a returned *EscapeAtEndError, fatal per spec.md S7.
func (p *Pool) Intern(src []byte, line, col int, sink diag.Sink) (pool.Offset, error) {
	start := len(p.buf)

	decoded := make([]byte, 0, len(src))
	for i := 0; i < len(src); i++ {
		c := src[i]
		if c != escapeByte {
			decoded = append(decoded, c)
			continue
		}
		if i+1 >= len(src) {
			return pool.None, &EscapeAtEndError{Line: line, Col: col}
		}
		i++
		esc := src[i]
		if replacement, ok := escapeTable[esc]; ok {
			decoded = append(decoded, replacement)
		} else {
			if sink != nil {
				sink.Warningf(line, col, "incorrect escape sequence '@%c'", esc)
			}
			decoded = append(decoded, esc)
		}
	}
	decoded = append(decoded, 0)

	if start+len(decoded) > p.capacity {
		return pool.None, &pool.OverflowError{Pool: "terminals", Capacity: p.capacity}
	}
	p.buf = append(p.buf, decoded...)

	return pool.Offset(start), nil
}

// Bytes returns the byte slice starting at off, up to but excluding the
// terminating NUL.
func (p *Pool) Bytes(off pool.Offset) []byte {
	i := int(off)
	if i < 0 || i >= len(p.buf) {
		return nil
	}
	end := i
	for end < len(p.buf) && p.buf[end] != 0 {
		end++
	}
	return p.buf[i:end]
}

// String returns the interned terminal at off as a Go string, excluding
// the terminating NUL.
func (p *Pool) String(off pool.Offset) string {
	return string(p.Bytes(off))
}

// Len returns the number of bytes currently stored, including NUL
// terminators.
func (p *Pool) Len() int { return len(p.buf) }

// Usage returns a human-readable summary of pool usage, in the style of
// coregx-coregex's nfa.NFA.String().
func (p *Pool) Usage() string {
	return fmt.Sprintf("term.Pool{used: %d/%d}", len(p.buf), p.capacity)
}
