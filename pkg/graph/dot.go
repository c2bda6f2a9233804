package graph

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Detailed adds id, x and y to node labels.
	// When false, only the value is shown.
	Detailed bool
	// Spacing is the distance in points between adjacent x and y positions.
	// Zero means DefaultDOTSpacing.
	Spacing float64
}

// DefaultDOTSpacing is the grid step used for pinned node positions.
const DefaultDOTSpacing = 72.0

// ToDOT converts a Graph to Graphviz DOT text.
//
// Every node carries a pinned pos attribute derived from x and y (y grows
// downward, so it is negated), and nodes on the same depth share a rank, so
// neato -n and dot both reproduce the computed layout. Edges are labelled
// with their side (L or R). Nodes with a negative y get no rank group;
// callers holding untrusted artifacts should Validate first.
func ToDOT(g Graph, opts DOTOptions) string {
	spacing := opts.Spacing
	if spacing <= 0 {
		spacing = DefaultDOTSpacing
	}

	var buf bytes.Buffer
	buf.WriteString("digraph BST {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.6, fontsize=10];\n")
	buf.WriteString("\n")

	xOf := make(map[int]int, len(g.Nodes))
	ranks := make(map[int][]int)
	for _, n := range g.Nodes {
		xOf[n.ID] = n.X
		if n.Y >= 0 {
			ranks[n.Y] = append(ranks[n.Y], n.ID)
		}

		fmt.Fprintf(&buf, "  n%d [label=%q, pos=\"%.0f,%.0f!\"];\n",
			n.ID, fmtLabel(n, opts.Detailed), float64(n.X)*spacing, float64(-n.Y)*spacing)
	}

	if len(ranks) > 0 {
		buf.WriteString("\n")
	}
	for _, y := range slices.Sorted(maps.Keys(ranks)) {
		ids := ranks[y]
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = fmt.Sprintf("n%d", id)
		}
		fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(names, "; "))
	}

	if len(g.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.Edges {
		side := "R"
		if xOf[e.To] < xOf[e.From] {
			side = "L"
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [label=%q];\n", e.From, e.To, side)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n Node, detailed bool) string {
	if !detailed {
		return fmt.Sprintf("%d", n.Value)
	}
	return fmt.Sprintf("%d\nid: %d\nx: %d, y: %d", n.Value, n.ID, n.X, n.Y)
}
