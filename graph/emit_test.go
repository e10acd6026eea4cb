package graph_test

import (
	"strings"
	"testing"

	"github.com/coregx/lexgen/diag"
	"github.com/coregx/lexgen/grammar"
	"github.com/coregx/lexgen/graph"
	"github.com/coregx/lexgen/nfa"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/require"
)

func buildHandle(t *testing.T, src string) (*nfa.Builder, *nfa.Handle) {
	t.Helper()
	sink := diag.NewRecordingSink()
	p := grammar.NewParser(sink)
	require.NoError(t, p.ParseAll(strings.NewReader(src)))
	require.NoError(t, p.CheckComplete())

	b := nfa.NewBuilder(p)
	h, _, err := b.BuildAll()
	require.NoError(t, err)
	return b, h
}

func TestEmitTextMinimal(t *testing.T) {
	b, h := buildHandle(t, "$Start := a\n")
	e := graph.NewEmitter(b.States, b.Edges)

	var out strings.Builder
	require.NoError(t, e.Emit(&out, h.Start, graph.Text))

	require.Contains(t, out.String(), "<start>")
	require.Contains(t, out.String(), "<accept>")
	require.Contains(t, out.String(), "Symbol a")
}

func TestEmitDotStylesStartAndAccept(t *testing.T) {
	b, h := buildHandle(t, "$Start := a\n")
	e := graph.NewEmitter(b.States, b.Edges)

	var out strings.Builder
	require.NoError(t, e.Emit(&out, h.Start, graph.Dot))

	s := out.String()
	require.True(t, strings.HasPrefix(s, "digraph NFA {"))
	require.Contains(t, s, "color=green")
	require.Contains(t, s, "color=red")
	require.Contains(t, s, `label="a"`)
}

func TestEmitDotEpsilonLabel(t *testing.T) {
	b, h := buildHandle(t, "$S := a | b\n")
	e := graph.NewEmitter(b.States, b.Edges)

	var out strings.Builder
	require.NoError(t, e.Emit(&out, h.Start, graph.Dot))
	require.Contains(t, out.String(), `label="eps"`)
}

func TestEmitYAMLRoundTripsStateCount(t *testing.T) {
	b, h := buildHandle(t, "$Start := a\n")
	e := graph.NewEmitter(b.States, b.Edges)

	var out strings.Builder
	require.NoError(t, e.Emit(&out, h.Start, graph.YAML))

	require.Contains(t, out.String(), "start:")
	require.Contains(t, out.String(), "states:")

	var doc struct {
		Start  int `yaml:"start"`
		States []struct {
			ID int `yaml:"id"`
		} `yaml:"states"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out.String()), &doc))
	require.Equal(t, int(h.Start), doc.Start)
	require.Len(t, doc.States, 2)
}

func TestEmitUnknownFormatErrors(t *testing.T) {
	b, h := buildHandle(t, "$Start := a\n")
	e := graph.NewEmitter(b.States, b.Edges)

	var out strings.Builder
	err := e.Emit(&out, h.Start, graph.Format("bogus"))
	require.Error(t, err)
}
