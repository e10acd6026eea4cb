package graph

import (
	"fmt"
	"io"

	"github.com/coregx/lexgen/pool"
)

// resetVisited clears every state's Visited flag, mirroring spec.md
// S4.5's "visited flag cleared before a walk". Bulk-clearing the whole
// arena (rather than only the reachable subgraph) is simpler and
// correct since a fresh walk must never see a stale mark.
func (e *Emitter) resetVisited() {
	for i := 0; i < e.states.Len(); i++ {
		e.states.MustGet(pool.Offset(i)).Visited = false
	}
}

// emitText implements spec.md S4.5's textual form, ported line-for-line
// from original_source/src/nfa.c's print_nfa/print_state.
func (e *Emitter) emitText(w io.Writer, start pool.Offset) error {
	e.resetVisited()
	return e.writeStateText(w, start)
}

func (e *Emitter) writeStateText(w io.Writer, off pool.Offset) error {
	st := e.states.MustGet(off)
	if st.Visited {
		return nil
	}
	st.Visited = true

	if _, err := fmt.Fprintf(w, "State %d %s\n", off, stateKindLabel(st.Kind)); err != nil {
		return err
	}

	for i := 0; i < st.NumEdges; i++ {
		edge := e.edges.MustGet(st.Edges[i])
		if _, err := fmt.Fprintf(w, "\t==(Symbol %s)==> State %d\n", symbolLabel(edge.Symbol), edge.Target); err != nil {
			return err
		}
	}

	for i := 0; i < st.NumEdges; i++ {
		edge := e.edges.MustGet(st.Edges[i])
		if err := e.writeStateText(w, edge.Target); err != nil {
			return err
		}
	}
	return nil
}
