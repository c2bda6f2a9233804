package graph

import (
	"github.com/matzehuels/bstlayout/pkg/bst"
)

// NoParent is the parent value of the root node.
const NoParent = 0

// =============================================================================
// Graph - Tree Serialization
// =============================================================================

// Graph is the canonical serialization format for a laid-out tree.
// Field and slice order are part of the format.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one tree node with its layout coordinates.
type Node struct {
	ID     int   `json:"id"`
	Value  int64 `json:"value"`
	X      int   `json:"x"`      // in-order rank
	Y      int   `json:"y"`      // depth
	Parent int   `json:"parent"` // parent id, NoParent for the root
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.Parent == NoParent }

// Edge is a parent→child link.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// NodeCount returns the number of nodes.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// =============================================================================
// Tree → Graph Conversion
// =============================================================================

// FromTree converts a tree to its serialization format.
//
// The layout is assigned first if it has not been already, so the result
// always carries final x values. An empty tree yields empty, non-nil slices.
func FromTree(t *bst.Tree) Graph {
	if !t.Laid() {
		t.AssignLayout()
	}

	out := Graph{
		Nodes: make([]Node, 0, t.Len()),
		Edges: make([]Edge, 0, max(t.Len()-1, 0)),
	}

	t.InOrder(func(n bst.Node) bool {
		out.Nodes = append(out.Nodes, nodeFromTree(n))
		return true
	})

	t.PreOrder(func(n bst.Node) bool {
		if n.Left != bst.NoNode {
			out.Edges = append(out.Edges, Edge{From: int(n.ID), To: int(n.Left)})
		}
		if n.Right != bst.NoNode {
			out.Edges = append(out.Edges, Edge{From: int(n.ID), To: int(n.Right)})
		}
		return true
	})

	return out
}

// nodeFromTree is the single point of conversion for bst.Node → Node.
func nodeFromTree(n bst.Node) Node {
	return Node{
		ID:     int(n.ID),
		Value:  n.Value,
		X:      n.X,
		Y:      n.Depth,
		Parent: int(n.Parent),
	}
}
