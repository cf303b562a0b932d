package cflow

import (
	"fmt"
	"strings"

	"github.com/aalbacetef/gocoro/internal/hostast"
)

// DOT renders the graph as Graphviz source: a supplemented debug surface
// (not part of spec.md's pipeline proper) that the CLI's dump-cfg subcommand
// exposes for inspecting a lowering gone wrong. state, if non-nil, is a
// projection's State slice (package project can't be imported here without
// a cycle, since it already imports cflow); when provided, each node's
// label includes its assigned resumption state alongside its index and
// payload, matching spec.md §6's debug-surface requirement.
func (g *Graph) DOT(state []int) string {
	var b strings.Builder
	b.WriteString("digraph cflow {\n")
	b.WriteString("  node [shape=box, fontname=\"monospace\"];\n")

	for i, n := range g.Nodes {
		label := nodeLabel(i, n.Payload)
		if state != nil && i < len(state) {
			label = fmt.Sprintf("%s [state=%d]", label, state[i])
		}
		b.WriteString(fmt.Sprintf("  n%d [label=%q];\n", i, label))
	}
	for _, e := range g.Edges {
		label := edgeLabel(e.Weight)
		if label == "" {
			b.WriteString(fmt.Sprintf("  n%d -> n%d;\n", e.Source, e.Target))
		} else {
			b.WriteString(fmt.Sprintf("  n%d -> n%d [label=%q];\n", e.Source, e.Target, label))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func nodeLabel(idx int, payload hostast.Stmt) string {
	if payload.Kind != hostast.KindUser {
		return fmt.Sprintf("n%d: %s", idx, payload.Kind)
	}
	text, err := hostast.Render(payload.Node)
	if err != nil {
		return fmt.Sprintf("n%d: <unrenderable>", idx)
	}
	return fmt.Sprintf("n%d: %s", idx, strings.TrimSpace(text))
}

func edgeLabel(weight hostast.Stmt) string {
	switch weight.Kind {
	case hostast.KindNop:
		return ""
	case hostast.KindElse:
		return "else"
	case hostast.KindUser:
		if expr := weight.GuardExpr(); expr != nil {
			if text, err := hostast.RenderExpr(expr); err == nil {
				return text
			}
		}
		return "guard"
	default:
		return weight.Kind.String()
	}
}
