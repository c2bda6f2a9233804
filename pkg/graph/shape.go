package graph

import (
	"maps"
	"slices"

	"github.com/matzehuels/bstlayout/pkg/errors"
)

// Shape is a pointer-free view of a tree rebuilt from an artifact, used to
// check that the edge list and the parent fields describe the same tree.
type Shape struct {
	Root  int
	nodes map[int]*shapeNode
}

type shapeNode struct {
	node        Node
	left, right int
}

// Len returns the number of nodes in the shape.
func (s *Shape) Len() int { return len(s.nodes) }

// Children returns the left and right child ids of id, NoParent when absent.
func (s *Shape) Children(id int) (left, right int, ok bool) {
	sn, ok := s.nodes[id]
	if !ok {
		return NoParent, NoParent, false
	}
	return sn.left, sn.right, true
}

// Reconstruct rebuilds the tree shape from the edge list alone.
//
// Node values and coordinates come from the node list; which child is left
// and which is right is decided by x, since a left child always precedes its
// parent in in-order sequence.
func Reconstruct(g Graph) (*Shape, error) {
	s, err := newShape(g)
	if err != nil {
		return nil, err
	}

	hasParent := make(map[int]bool, len(g.Nodes))
	for _, e := range g.Edges {
		if err := s.link(e.From, e.To); err != nil {
			return nil, err
		}
		if hasParent[e.To] {
			return nil, errors.New(errors.ErrCodeInvalidArtifact, "node %d has more than one incoming edge", e.To)
		}
		hasParent[e.To] = true
	}

	return s, s.findRoot(func(id int) bool { return !hasParent[id] })
}

// ShapeFromParents rebuilds the tree shape from the nodes' parent fields
// alone, ignoring the edge list.
func ShapeFromParents(g Graph) (*Shape, error) {
	s, err := newShape(g)
	if err != nil {
		return nil, err
	}
	for _, n := range g.Nodes {
		if n.IsRoot() {
			continue
		}
		if err := s.link(n.Parent, n.ID); err != nil {
			return nil, err
		}
	}
	return s, s.findRoot(func(id int) bool { return s.nodes[id].node.IsRoot() })
}

// Equal reports whether s and o are isomorphic: the same shape with the same
// values at the same positions. Ids and coordinates are not compared.
func (s *Shape) Equal(o *Shape) bool {
	if s.Len() != o.Len() {
		return false
	}
	type pair struct{ a, b int }
	stack := []pair{{s.Root, o.Root}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if (p.a == NoParent) != (p.b == NoParent) {
			return false
		}
		if p.a == NoParent {
			continue
		}
		na, nb := s.nodes[p.a], o.nodes[p.b]
		if na.node.Value != nb.node.Value {
			return false
		}
		stack = append(stack, pair{na.left, nb.left}, pair{na.right, nb.right})
	}
	return true
}

func newShape(g Graph) (*Shape, error) {
	s := &Shape{nodes: make(map[int]*shapeNode, len(g.Nodes))}
	for _, n := range g.Nodes {
		if n.ID <= NoParent {
			return nil, errors.New(errors.ErrCodeInvalidArtifact, "invalid node id %d", n.ID)
		}
		if _, dup := s.nodes[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidArtifact, "duplicate node id %d", n.ID)
		}
		s.nodes[n.ID] = &shapeNode{node: n}
	}
	return s, nil
}

func (s *Shape) link(from, to int) error {
	parent, ok := s.nodes[from]
	if !ok {
		return errors.New(errors.ErrCodeInvalidArtifact, "unknown parent node %d", from)
	}
	child, ok := s.nodes[to]
	if !ok {
		return errors.New(errors.ErrCodeInvalidArtifact, "unknown child node %d", to)
	}
	if from == to {
		return errors.New(errors.ErrCodeInvalidArtifact, "node %d is its own parent", from)
	}

	slot := &parent.right
	side := "right"
	if child.node.X < parent.node.X {
		slot, side = &parent.left, "left"
	}
	if *slot != NoParent {
		return errors.New(errors.ErrCodeInvalidArtifact, "node %d has two %s children (%d, %d)", from, side, *slot, to)
	}
	*slot = to
	return nil
}

// findRoot locates the single root and checks every node is reachable from
// it, which rules out cycles. Ids are scanned in ascending order.
func (s *Shape) findRoot(isRoot func(id int) bool) error {
	if len(s.nodes) == 0 {
		return nil
	}
	for _, id := range slices.Sorted(maps.Keys(s.nodes)) {
		if !isRoot(id) {
			continue
		}
		if s.Root != NoParent {
			return errors.New(errors.ErrCodeInvalidArtifact, "multiple roots (%d, %d)", s.Root, id)
		}
		s.Root = id
	}
	if s.Root == NoParent {
		return errors.New(errors.ErrCodeInvalidArtifact, "no root node")
	}

	seen := 0
	stack := []int{s.Root}
	for len(stack) > 0 && seen <= len(s.nodes) {
		sn := s.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		seen++
		if sn.left != NoParent {
			stack = append(stack, sn.left)
		}
		if sn.right != NoParent {
			stack = append(stack, sn.right)
		}
	}
	if seen != len(s.nodes) {
		return errors.New(errors.ErrCodeInvalidArtifact, "%d of %d nodes reachable from root %d", seen, len(s.nodes), s.Root)
	}
	return nil
}
