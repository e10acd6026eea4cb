// Package graph implements the automaton emitter (spec.md S4.5,
// component C5): a depth-first walk from an NFA handle's start state
// that renders the reachable subautomaton as text, Graphviz, or YAML.
//
// Grounded on original_source/src/nfa.c's print_nfa/print_state (the
// visited-flag DFS and textual layout) and spec.md S6's Graphviz
// styling contract.
package graph

import (
	"fmt"
	"io"

	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/pool"
)

// Format selects an emitter's output encoding.
type Format string

const (
	Text Format = "text"
	Dot  Format = "dot"
	YAML Format = "yaml"
)

// Emitter walks a built NFA and renders it in one of Format's encodings.
type Emitter struct {
	states  *pool.Arena[nfa.State]
	edges   *pool.Arena[nfa.Edge]
	visited map[pool.Offset]bool
}

// NewEmitter constructs an Emitter over the state/edge arenas a
// nfa.Builder produced.
func NewEmitter(states *pool.Arena[nfa.State], edges *pool.Arena[nfa.Edge]) *Emitter {
	return &Emitter{states: states, edges: edges}
}

// Emit renders the subautomaton reachable from start in the requested
// format, writing to w. An unrecognized format is returned as an error;
// cmd/lexgen passes the -format flag through unchecked and reports that
// error as fatal.
func (e *Emitter) Emit(w io.Writer, start pool.Offset, format Format) error {
	switch format {
	case Text, "":
		return e.emitText(w, start)
	case Dot:
		return e.emitDot(w, start)
	case YAML:
		return e.emitYAML(w, start)
	default:
		return fmt.Errorf("graph: unknown format %q", format)
	}
}

func symbolLabel(symbol byte) string {
	if symbol == nfa.Epsilon {
		return "eps"
	}
	return string(rune(symbol))
}

func stateKindLabel(k nfa.StateKind) string {
	switch k {
	case nfa.Start:
		return "<start>"
	case nfa.Accepting:
		return "<accept>"
	default:
		return ""
	}
}
