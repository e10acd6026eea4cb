package nfa_test

import (
	"strings"
	"testing"

	"github.com/coregx/lexgen/diag"
	"github.com/coregx/lexgen/grammar"
	"github.com/coregx/lexgen/nfa"
	"github.com/coregx/lexgen/pool"
	"github.com/stretchr/testify/require"
)

func mustBuild(t *testing.T, src string) (*grammar.Parser, *nfa.Builder, *nfa.Handle) {
	t.Helper()
	sink := diag.NewRecordingSink()
	p := grammar.NewParser(sink)
	require.NoError(t, p.ParseAll(strings.NewReader(src)))
	require.NoError(t, p.CheckComplete())

	b := nfa.NewBuilder(p)
	h, _, err := b.BuildAll()
	require.NoError(t, err)
	return p, b, h
}

// TestMinimal mirrors spec.md S8 scenario 1: a single terminal compiles
// to a 2-state, 1-edge NFA.
func TestMinimal(t *testing.T) {
	_, b, h := mustBuild(t, "$Start := a\n")

	start := b.States.MustGet(h.Start)
	require.Equal(t, nfa.Start, start.Kind)
	require.Equal(t, 1, start.NumEdges)

	edge := b.Edges.MustGet(start.Edges[0])
	require.Equal(t, byte('a'), edge.Symbol)
	require.Equal(t, h.Accepting, edge.Target)

	accept := b.States.MustGet(h.Accepting)
	require.Equal(t, nfa.Accepting, accept.Kind)
}

// TestAlternation mirrors spec.md S8 scenario 2.
func TestAlternation(t *testing.T) {
	_, b, h := mustBuild(t, "$S := a | b\n")

	start := b.States.MustGet(h.Start)
	require.Equal(t, nfa.Start, start.Kind)
	require.Equal(t, 2, start.NumEdges)

	var symbols []byte
	for i := 0; i < start.NumEdges; i++ {
		e := b.Edges.MustGet(start.Edges[i])
		require.Equal(t, nfa.Epsilon, e.Symbol)
		inner := b.States.MustGet(e.Target)
		require.Equal(t, 1, inner.NumEdges)
		innerEdge := b.Edges.MustGet(inner.Edges[0])
		symbols = append(symbols, innerEdge.Symbol)
	}
	require.ElementsMatch(t, []byte{'a', 'b'}, symbols)
}

// TestClosure mirrors spec.md S8 scenario 3.
func TestClosure(t *testing.T) {
	_, b, h := mustBuild(t, "$S := a*\n")

	start := b.States.MustGet(h.Start)
	require.Equal(t, nfa.Start, start.Kind)
	require.Equal(t, 2, start.NumEdges)

	sawAccept := false
	for i := 0; i < start.NumEdges; i++ {
		e := b.Edges.MustGet(start.Edges[i])
		require.Equal(t, nfa.Epsilon, e.Symbol)
		if e.Target == h.Accepting {
			sawAccept = true
		}
	}
	require.True(t, sawAccept)
}

// TestConcatenationMultiByteTerminal mirrors spec.md S8 scenario 4.
func TestConcatenationMultiByteTerminal(t *testing.T) {
	_, b, h := mustBuild(t, "$S := if then\n")

	var symbols []byte
	cur := h.Start
	for {
		st := b.States.MustGet(cur)
		if st.NumEdges == 0 {
			break
		}
		e := b.Edges.MustGet(st.Edges[0])
		if e.Symbol != nfa.Epsilon {
			symbols = append(symbols, e.Symbol)
		}
		cur = e.Target
		if cur == h.Accepting {
			break
		}
	}
	require.Equal(t, []byte("ifthen"), symbols)
}

// TestEscape mirrors spec.md S8 scenario 5.
func TestEscape(t *testing.T) {
	_, b, h := mustBuild(t, "$S := hello@_world\n")

	var symbols []byte
	cur := h.Start
	for {
		st := b.States.MustGet(cur)
		if st.NumEdges == 0 {
			break
		}
		e := b.Edges.MustGet(st.Edges[0])
		symbols = append(symbols, e.Symbol)
		cur = e.Target
		if cur == h.Accepting {
			break
		}
	}
	require.Equal(t, []byte("hello world"), symbols)
}

// TestForwardReference mirrors spec.md S8 scenario 6: $A inlines $B.
func TestForwardReference(t *testing.T) {
	_, _, h := mustBuild(t, "$A := $B c\n$B := d\n")
	require.NotNil(t, h)
}

func TestRecursiveNonTerminalIsRejected(t *testing.T) {
	sink := diag.NewRecordingSink()
	p := grammar.NewParser(sink)
	require.NoError(t, p.ParseAll(strings.NewReader("$A := $A a\n")))
	require.NoError(t, p.CheckComplete())

	b := nfa.NewBuilder(p)
	_, _, err := b.BuildAll()
	require.Error(t, err)
	var recErr *nfa.RecursiveNonTerminalError
	require.ErrorAs(t, err, &recErr)
	require.Equal(t, "A", recErr.Name)
}

func TestMemoizedNonTerminalIsBuiltOnce(t *testing.T) {
	// $D is referenced from both $B and $C; under the memoize-on-first-
	// build policy it must be built exactly once and its handle reused,
	// not rebuilt into a fresh (and diverging) copy on the second hit.
	sink := diag.NewRecordingSink()
	p := grammar.NewParser(sink)
	require.NoError(t, p.ParseAll(strings.NewReader(
		"$A := $B $C\n$B := $D a\n$C := $D b\n$D := d\n")))
	require.NoError(t, p.CheckComplete())

	b := nfa.NewBuilder(p)
	h, _, err := b.BuildAll()
	require.NoError(t, err)
	require.NotNil(t, h)

	// A single build of $D spells its 'd' transition exactly once.
	dEdges := 0
	for i := 0; i < b.Edges.Len(); i++ {
		if b.Edges.MustGet(pool.Offset(i)).Symbol == 'd' {
			dEdges++
		}
	}
	require.Equal(t, 1, dEdges)
}

