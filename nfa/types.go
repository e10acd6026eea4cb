// Package nfa implements the Thompson NFA builder (spec.md S4.4, component
// C4): structural recursion over the expression forest produced by
// package grammar, yielding a single unioned non-deterministic automaton.
//
// Grounded on original_source/src/nfa.c's or_nfa/concat_nfa/
// build_single_symbol_nfa, generalized to closure (absent from the
// original but specified in spec.md S4.4) and multi-byte terminals; the
// Builder/typed-error shape follows coregx-coregex's nfa package idiom.
package nfa

import (
	"github.com/coregx/lexgen/grammar"
	"github.com/coregx/lexgen/pool"
)

// Fixed pool capacities, spec.md S4.4 / original_source/src/nfa.c. The
// constant factor of 10 on edges (rather than the ~5 Thompson's
// construction needs per node) accounts for reserved-word terminals
// being spelled out byte-by-byte in the NFA while a grammar body
// references them as a single token.
const (
	MaxEdgesPerNode = 128
	MaxNfaStates    = 1024
	MaxNfaEdges     = 10 * (grammar.MaxNestedExprs + grammar.MaxNonterms)
	MaxNfas         = MaxNfaStates / 4
)

// Epsilon is the sentinel edge symbol meaning "no input consumed".
const Epsilon byte = 0

// StateKind classifies an NFA state.
type StateKind uint8

const (
	Start StateKind = iota
	Internal
	Accepting
)

func (k StateKind) String() string {
	switch k {
	case Start:
		return "start"
	case Internal:
		return "internal"
	case Accepting:
		return "accept"
	default:
		return "unknown"
	}
}

// State is one NFA node: a fixed-capacity edge list plus a kind, per
// spec.md S3 / original_source/include/nfa.h's NFAState.
type State struct {
	Edges    [MaxEdgesPerNode]pool.Offset
	NumEdges int
	Kind     StateKind
	Visited  bool
}

// Edge is a single transition: Symbol == Epsilon means an ε-transition.
type Edge struct {
	Target pool.Offset
	Symbol byte
}

// Handle is a subautomaton: exactly one Start state and one Accepting
// state, per spec.md S4.4's invariant.
type Handle struct {
	Start     pool.Offset
	Accepting pool.Offset
}
