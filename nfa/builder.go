package nfa

import (
	"github.com/coregx/lexgen/grammar"
	"github.com/coregx/lexgen/pool"
)

// Builder owns the three NFA-phase arenas (states, edges, handles) and
// reads the expression forest written by a grammar.Parser. It is the
// Builder context spec.md S9 recommends in place of the original's
// module-level statics.
type Builder struct {
	src *grammar.Parser

	States  *pool.Arena[State]
	Edges   *pool.Arena[Edge]
	Handles *pool.Arena[Handle]

	// nontermToNFA memoizes build_non_terminal results by non-terminal
	// slot, resolving spec.md S9's repeated-expansion open question:
	// build on first reference, reuse the handle on every later one.
	nontermToNFA []pool.Offset
	building     []bool
}

// NewBuilder constructs a Builder over a fully parsed grammar.Parser
// (src.CheckComplete() must already have succeeded).
func NewBuilder(src *grammar.Parser) *Builder {
	n := grammar.MaxNonterms
	nontermToNFA := make([]pool.Offset, n)
	for i := range nontermToNFA {
		nontermToNFA[i] = pool.None
	}
	return &Builder{
		src:          src,
		States:       pool.NewArena[State]("nfa-states", MaxNfaStates),
		Edges:        pool.NewArena[Edge]("nfa-edges", MaxNfaEdges),
		Handles:      pool.NewArena[Handle]("nfa-handles", MaxNfas),
		nontermToNFA: nontermToNFA,
		building:     make([]bool, n),
	}
}

func (b *Builder) newState(kind StateKind) (pool.Offset, error) {
	off, st, err := b.States.Alloc()
	if err != nil {
		return pool.None, err
	}
	st.Kind = kind
	st.NumEdges = 0
	return off, nil
}

func (b *Builder) newEdge(target pool.Offset, symbol byte) (pool.Offset, error) {
	off, e, err := b.Edges.Alloc()
	if err != nil {
		return pool.None, err
	}
	e.Target = target
	e.Symbol = symbol
	return off, nil
}

// addEdge appends an already-allocated edge to a state's edge list,
// per original_source/src/nfa.c's inline `edges[numEdges++] = ...`.
func (b *Builder) addEdge(stateOff, edgeOff pool.Offset) error {
	st := b.States.MustGet(stateOff)
	if st.NumEdges >= MaxEdgesPerNode {
		return &pool.OverflowError{Pool: "nfa-state-edges", Capacity: MaxEdgesPerNode}
	}
	st.Edges[st.NumEdges] = edgeOff
	st.NumEdges++
	return nil
}

// newHandle allocates a fresh handle with a brand-new start and
// accepting state, mirroring original_source/src/nfa.c's new_nfa.
func (b *Builder) newHandle() (pool.Offset, error) {
	startOff, err := b.newState(Start)
	if err != nil {
		return pool.None, err
	}
	acceptOff, err := b.newState(Accepting)
	if err != nil {
		return pool.None, err
	}
	hOff, h, err := b.Handles.Alloc()
	if err != nil {
		return pool.None, err
	}
	h.Start = startOff
	h.Accepting = acceptOff
	return hOff, nil
}

// buildSingleSymbol implements spec.md S4.4's single-symbol primitive.
func (b *Builder) buildSingleSymbol(symbol byte) (pool.Offset, error) {
	hOff, err := b.newHandle()
	if err != nil {
		return pool.None, err
	}
	h := b.Handles.MustGet(hOff)
	edgeOff, err := b.newEdge(h.Accepting, symbol)
	if err != nil {
		return pool.None, err
	}
	if err := b.addEdge(h.Start, edgeOff); err != nil {
		return pool.None, err
	}
	return hOff, nil
}

// buildMultiByteTerminal implements spec.md S4.4's multi-byte terminal
// primitive: a chain of single-symbol transitions, one per byte.
func (b *Builder) buildMultiByteTerminal(t []byte) (pool.Offset, error) {
	if len(t) == 0 {
		return pool.None, invariantErrorf("multi-byte terminal with zero length")
	}

	startOff, err := b.newState(Start)
	if err != nil {
		return pool.None, err
	}

	prevOff := startOff
	var lastOff pool.Offset
	for i, sym := range t {
		var nextOff pool.Offset
		if i == len(t)-1 {
			nextOff, err = b.newState(Accepting)
		} else {
			nextOff, err = b.newState(Internal)
		}
		if err != nil {
			return pool.None, err
		}

		edgeOff, err := b.newEdge(nextOff, sym)
		if err != nil {
			return pool.None, err
		}
		if err := b.addEdge(prevOff, edgeOff); err != nil {
			return pool.None, err
		}
		prevOff = nextOff
		lastOff = nextOff
	}

	hOff, h, err := b.Handles.Alloc()
	if err != nil {
		return pool.None, err
	}
	h.Start = startOff
	h.Accepting = lastOff
	return hOff, nil
}

// concatInPlace implements spec.md S4.4's concat_inplace: h2 is spliced
// onto h1's accepting state via an ε-edge; h1 absorbs h2's identity.
func (b *Builder) concatInPlace(h1Off, h2Off pool.Offset) error {
	if h1Off == h2Off {
		return invariantErrorf("attempted to concatenate a handle with itself")
	}
	h1 := b.Handles.MustGet(h1Off)
	h2 := b.Handles.MustGet(h2Off)

	h1Accept := b.States.MustGet(h1.Accepting)
	h1Accept.Kind = Internal

	edgeOff, err := b.newEdge(h2.Start, Epsilon)
	if err != nil {
		return err
	}
	if err := b.addEdge(h1.Accepting, edgeOff); err != nil {
		return err
	}

	b.States.MustGet(h2.Start).Kind = Internal
	h1.Accepting = h2.Accepting
	return nil
}

// orInPlace implements spec.md S4.4's or_inplace: a new start/accept
// pair fans out to, and converges from, h1 and h2 via ε-edges.
func (b *Builder) orInPlace(h1Off, h2Off pool.Offset) error {
	if h1Off == h2Off {
		return invariantErrorf("attempted to OR a handle with itself")
	}
	h1 := b.Handles.MustGet(h1Off)
	h2 := b.Handles.MustGet(h2Off)

	newStartOff, err := b.newState(Start)
	if err != nil {
		return err
	}
	newAcceptOff, err := b.newState(Accepting)
	if err != nil {
		return err
	}

	b.States.MustGet(h1.Start).Kind = Internal
	b.States.MustGet(h1.Accepting).Kind = Internal
	b.States.MustGet(h2.Start).Kind = Internal
	b.States.MustGet(h2.Accepting).Kind = Internal

	for _, target := range [2]pool.Offset{h1.Start, h2.Start} {
		edgeOff, err := b.newEdge(target, Epsilon)
		if err != nil {
			return err
		}
		if err := b.addEdge(newStartOff, edgeOff); err != nil {
			return err
		}
	}
	for _, src := range [2]pool.Offset{h1.Accepting, h2.Accepting} {
		edgeOff, err := b.newEdge(newAcceptOff, Epsilon)
		if err != nil {
			return err
		}
		if err := b.addEdge(src, edgeOff); err != nil {
			return err
		}
	}

	h1.Start = newStartOff
	h1.Accepting = newAcceptOff
	return nil
}

// closureInPlace implements spec.md S4.4's closure_inplace (absent
// from original_source/src/nfa.c, which only reaches or_nfa/concat_nfa;
// constructed here directly from spec.md's prose description).
func (b *Builder) closureInPlace(hOff pool.Offset) error {
	h := b.Handles.MustGet(hOff)

	newStartOff, err := b.newState(Start)
	if err != nil {
		return err
	}
	newAcceptOff, err := b.newState(Accepting)
	if err != nil {
		return err
	}

	b.States.MustGet(h.Start).Kind = Internal
	b.States.MustGet(h.Accepting).Kind = Internal

	for _, target := range [2]pool.Offset{h.Start, newAcceptOff} {
		edgeOff, err := b.newEdge(target, Epsilon)
		if err != nil {
			return err
		}
		if err := b.addEdge(newStartOff, edgeOff); err != nil {
			return err
		}
	}
	for _, target := range [2]pool.Offset{h.Start, newAcceptOff} {
		edgeOff, err := b.newEdge(target, Epsilon)
		if err != nil {
			return err
		}
		if err := b.addEdge(h.Accepting, edgeOff); err != nil {
			return err
		}
	}

	h.Start = newStartOff
	h.Accepting = newAcceptOff
	return nil
}

// buildTerminal dispatches a terminal offset to the single-symbol or
// multi-byte primitive depending on its interned byte length.
func (b *Builder) buildTerminal(off pool.Offset) (pool.Offset, error) {
	bytes := b.src.Terms.Bytes(off)
	if len(bytes) == 1 {
		return b.buildSingleSymbol(bytes[0])
	}
	return b.buildMultiByteTerminal(bytes)
}

// buildNonTerminalCore implements spec.md S4.4 step 2's
// `nonterm_to_nfa[i] = build_expr(root_expr(i))` under the
// memoize-on-first-build policy: a non-terminal's core sub-automaton is
// built exactly once and the same core offset is returned on every
// later call, unwrapped. Referencing a non-terminal still being built
// is a recursive grammar and is rejected rather than recursing forever.
func (b *Builder) buildNonTerminalCore(ntOff pool.Offset) (pool.Offset, error) {
	idx := int(ntOff)
	if core := b.nontermToNFA[idx]; core.Valid() {
		return core, nil
	}
	if b.building[idx] {
		nt := b.src.Nonterms.MustGet(ntOff)
		return pool.None, &RecursiveNonTerminalError{Name: nt.Name}
	}

	b.building[idx] = true
	nt := b.src.Nonterms.MustGet(ntOff)
	coreOff, err := b.buildExpr(nt.RootExpr)
	b.building[idx] = false
	if err != nil {
		return pool.None, err
	}

	b.nontermToNFA[idx] = coreOff
	return coreOff, nil
}

// buildNonTerminal implements build_operand(NON_TERMINAL, ...): a
// reference to a non-terminal from within another non-terminal's
// expression tree. It gets back a fresh ε-wrapper handle around the
// (possibly shared, possibly cached) core rather than the core's own
// handle: build_expr's binary primitives mutate their lhs handle in
// place, so handing out the same mutable handle to two embedding sites
// would let one reference's splice (e.g. concatenating a trailing
// terminal) bleed into the other's. The wrapper keeps the core itself
// untouched after its build; only its ε in/out edges accumulate, one
// pair per reference. Unlike buildNonTerminalCore, this is never called
// for a table entry's own top-level handle.
func (b *Builder) buildNonTerminal(ntOff pool.Offset) (pool.Offset, error) {
	coreOff, err := b.buildNonTerminalCore(ntOff)
	if err != nil {
		return pool.None, err
	}
	return b.wrapHandle(coreOff)
}

// wrapHandle allocates a new handle that ε-links into and out of an
// existing (possibly shared) core handle, without touching the core's
// own Start/Accepting fields.
func (b *Builder) wrapHandle(coreOff pool.Offset) (pool.Offset, error) {
	core := b.Handles.MustGet(coreOff)

	newStartOff, err := b.newState(Start)
	if err != nil {
		return pool.None, err
	}
	newAcceptOff, err := b.newState(Accepting)
	if err != nil {
		return pool.None, err
	}

	b.States.MustGet(core.Start).Kind = Internal
	b.States.MustGet(core.Accepting).Kind = Internal

	inEdgeOff, err := b.newEdge(core.Start, Epsilon)
	if err != nil {
		return pool.None, err
	}
	if err := b.addEdge(newStartOff, inEdgeOff); err != nil {
		return pool.None, err
	}

	outEdgeOff, err := b.newEdge(newAcceptOff, Epsilon)
	if err != nil {
		return pool.None, err
	}
	if err := b.addEdge(core.Accepting, outEdgeOff); err != nil {
		return pool.None, err
	}

	wrapperOff, wrapper, err := b.Handles.Alloc()
	if err != nil {
		return pool.None, err
	}
	wrapper.Start = newStartOff
	wrapper.Accepting = newAcceptOff
	return wrapperOff, nil
}

// buildOperand implements spec.md S4.4's build_operand.
func (b *Builder) buildOperand(off pool.Offset, kind grammar.OperandKind) (pool.Offset, error) {
	switch kind {
	case grammar.KindNestedExpr:
		return b.buildExpr(off)
	case grammar.KindNonTerminal:
		return b.buildNonTerminal(off)
	case grammar.KindTerminal:
		return b.buildTerminal(off)
	default:
		return pool.None, invariantErrorf("build_operand reached NOTHING")
	}
}

// buildExpr implements spec.md S4.4's build_expr.
func (b *Builder) buildExpr(exprOff pool.Offset) (pool.Offset, error) {
	if !exprOff.Valid() {
		return pool.None, invariantErrorf("build_expr called with NONE offset")
	}
	expr := b.src.Exprs.MustGet(exprOff)

	lhsOff, err := b.buildOperand(expr.Op1, expr.Op1Kind)
	if err != nil {
		return pool.None, err
	}

	switch expr.Op {
	case grammar.NoOp:
		return lhsOff, nil
	case grammar.Or:
		rhsOff, err := b.buildOperand(expr.Op2, expr.Op2Kind)
		if err != nil {
			return pool.None, err
		}
		if err := b.orInPlace(lhsOff, rhsOff); err != nil {
			return pool.None, err
		}
		return lhsOff, nil
	case grammar.And:
		rhsOff, err := b.buildOperand(expr.Op2, expr.Op2Kind)
		if err != nil {
			return pool.None, err
		}
		if err := b.concatInPlace(lhsOff, rhsOff); err != nil {
			return pool.None, err
		}
		return lhsOff, nil
	case grammar.ZeroOrMore:
		if err := b.closureInPlace(lhsOff); err != nil {
			return pool.None, err
		}
		return lhsOff, nil
	default:
		return pool.None, invariantErrorf("unknown operator kind %v", expr.Op)
	}
}

// BuildAll implements spec.md S4.4's build_nfa: build every
// non-terminal's raw core handle in first-encounter (table) order —
// `nonterm_to_nfa[i] = build_expr(root_expr(i))`, no ε-wrapping — then
// left-fold union starting from slot 0. Wrapping is only for embedded
// NON_TERMINAL operand references (see buildNonTerminal); a table
// entry's own top-level handle is never wrapped.
func (b *Builder) BuildAll() (*Handle, pool.Offset, error) {
	n := b.src.Nonterms.Len()
	if n == 0 {
		return nil, pool.None, invariantErrorf("no non-terminals to build")
	}

	handles := make([]pool.Offset, n)
	for i := 0; i < n; i++ {
		hOff, err := b.buildNonTerminalCore(pool.Offset(i))
		if err != nil {
			return nil, pool.None, err
		}
		handles[i] = hOff
	}

	u := handles[0]
	for i := 1; i < n; i++ {
		if err := b.orInPlace(u, handles[i]); err != nil {
			return nil, pool.None, err
		}
	}

	return b.Handles.MustGet(u), u, nil
}
