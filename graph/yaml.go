package graph

import (
	"io"

	"github.com/coregx/lexgen/pool"
	"github.com/goccy/go-yaml"
)

// yamlEdge is one emitted transition in YAML form.
type yamlEdge struct {
	Target int    `yaml:"target"`
	Symbol string `yaml:"symbol"`
}

// yamlState is one emitted state in YAML form.
type yamlState struct {
	ID    int        `yaml:"id"`
	Kind  string     `yaml:"kind"`
	Edges []yamlEdge `yaml:"edges,omitempty"`
}

// yamlAutomaton is the root document emitted for -format yaml, an output
// mode (SPEC_FULL.md DOMAIN STACK) beyond spec.md S4.5's text/Graphviz pair.
type yamlAutomaton struct {
	Start  int         `yaml:"start"`
	States []yamlState `yaml:"states"`
}

// emitYAML renders the reachable subautomaton as a goccy/go-yaml
// document: one entry per state, in DFS visitation order.
func (e *Emitter) emitYAML(w io.Writer, start pool.Offset) error {
	e.resetVisited()

	doc := yamlAutomaton{Start: int(start)}
	if err := e.collectYAML(start, &doc.States); err != nil {
		return err
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func (e *Emitter) collectYAML(off pool.Offset, states *[]yamlState) error {
	st := e.states.MustGet(off)
	if st.Visited {
		return nil
	}
	st.Visited = true

	entry := yamlState{ID: int(off), Kind: st.Kind.String()}
	for i := 0; i < st.NumEdges; i++ {
		edge := e.edges.MustGet(st.Edges[i])
		entry.Edges = append(entry.Edges, yamlEdge{
			Target: int(edge.Target),
			Symbol: symbolLabel(edge.Symbol),
		})
	}
	*states = append(*states, entry)

	for i := 0; i < st.NumEdges; i++ {
		edge := e.edges.MustGet(st.Edges[i])
		if edge.Target == off {
			continue
		}
		if err := e.collectYAML(edge.Target, states); err != nil {
			return err
		}
	}
	return nil
}
