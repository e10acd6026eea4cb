package graph

import (
	"fmt"
	"io"

	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/pool"
)

// emitDot implements spec.md S4.5/S6's Graphviz form: start painted
// green, accepting red, ε-edges labeled "eps".
func (e *Emitter) emitDot(w io.Writer, start pool.Offset) error {
	e.resetVisited()

	if _, err := fmt.Fprintln(w, "digraph NFA {"); err != nil {
		return err
	}

	var edgeLines []string
	if err := e.writeStateDot(w, start, &edgeLines); err != nil {
		return err
	}
	for _, line := range edgeLines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func (e *Emitter) writeStateDot(w io.Writer, off pool.Offset, edgeLines *[]string) error {
	st := e.states.MustGet(off)
	if st.Visited {
		return nil
	}
	st.Visited = true

	node := fmt.Sprintf("S%d", off)
	switch st.Kind {
	case nfa.Start:
		if _, err := fmt.Fprintf(w, "  %s [shape=box,style=filled,color=green];\n", node); err != nil {
			return err
		}
	case nfa.Accepting:
		if _, err := fmt.Fprintf(w, "  %s [shape=box,style=filled,color=red];\n", node); err != nil {
			return err
		}
	}

	for i := 0; i < st.NumEdges; i++ {
		edge := e.edges.MustGet(st.Edges[i])
		*edgeLines = append(*edgeLines, fmt.Sprintf("  S%d -> S%d [label=%q];", off, edge.Target, symbolLabel(edge.Symbol)))
	}

	for i := 0; i < st.NumEdges; i++ {
		edge := e.edges.MustGet(st.Edges[i])
		if err := e.writeStateDot(w, edge.Target, edgeLines); err != nil {
			return err
		}
	}
	return nil
}
