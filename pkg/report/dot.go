package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackinv/pkg/inventory"
	"github.com/matzehuels/stackinv/pkg/store"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Types restricts the diagram to vertices of these types. Edges are kept
	// when both endpoints are kept. Empty means all types.
	Types []string

	// EdgeLabels prints the edge type on every edge.
	EdgeLabels bool
}

var shapes = map[string]string{
	inventory.TypeRoot:      "doubleoctagon",
	inventory.TypeDomain:    "folder",
	inventory.TypeComponent: "box",
	inventory.TypeGateway:   "hexagon",
	inventory.TypeRoute:     "note",
	inventory.TypeLanguage:  "ellipse",
	inventory.TypeFramework: "ellipse",
}

// ToDOT converts the graph to Graphviz DOT source. Vertices and edges are
// written in store order, so the output is stable for a given store.
func ToDOT(s *store.Store, opts DOTOptions) string {
	keep := func(v *store.Vertex) bool {
		if len(opts.Types) == 0 {
			return true
		}
		for _, t := range opts.Types {
			if v.Type == t {
				return true
			}
		}
		return false
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	kept := make(map[string]bool)
	for _, v := range s.Vertices() {
		if !keep(v) {
			continue
		}
		kept[v.ID] = true
		shape, ok := shapes[v.Type]
		if !ok {
			shape = "box"
		}
		fmt.Fprintf(&buf, "  %q [label=%q, shape=%s];\n", v.ID, v.Name(), shape)
	}

	buf.WriteString("\n")
	for _, e := range s.Edges() {
		if !kept[e.From] || !kept[e.To] {
			continue
		}
		attrs := []string{}
		if opts.EdgeLabels && e.Type != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Type))
		}
		if e.Type == inventory.EdgeUses {
			attrs = append(attrs, "style=dashed")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out DOT source with Graphviz and returns the SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
