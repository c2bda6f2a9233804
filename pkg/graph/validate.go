package graph

import (
	"github.com/matzehuels/bstlayout/pkg/errors"
)

// Validate checks that g is a well-formed artifact:
//
//   - node ids are positive and unique, with exactly one root when non-empty
//   - parent fields and the edge list describe the same tree
//   - there are n-1 edges for n nodes
//   - x is each node's in-order rank and y its depth
//   - values respect the ordering rule (left <= parent < right)
//
// All failures carry ErrCodeInvalidArtifact.
func (g Graph) Validate() error {
	if len(g.Nodes) == 0 {
		if len(g.Edges) != 0 {
			return errors.New(errors.ErrCodeInvalidArtifact, "empty graph has %d edges", len(g.Edges))
		}
		return nil
	}
	if len(g.Edges) != len(g.Nodes)-1 {
		return errors.New(errors.ErrCodeInvalidArtifact, "%d nodes need %d edges, got %d", len(g.Nodes), len(g.Nodes)-1, len(g.Edges))
	}

	fromParents, err := ShapeFromParents(g)
	if err != nil {
		return err
	}
	fromEdges, err := Reconstruct(g)
	if err != nil {
		return err
	}
	if fromParents.Root != fromEdges.Root {
		return errors.New(errors.ErrCodeInvalidArtifact, "root from parents is %d, root from edges is %d", fromParents.Root, fromEdges.Root)
	}
	for id, sn := range fromParents.nodes {
		en := fromEdges.nodes[id]
		if sn.left != en.left || sn.right != en.right {
			return errors.New(errors.ErrCodeInvalidArtifact, "node %d children differ between parent fields and edges", id)
		}
	}

	return fromParents.checkLayout()
}

type bound struct {
	v   int64
	set bool
}

// checkLayout walks the shape in order, checking x, y and value bounds.
func (s *Shape) checkLayout() error {
	type frame struct {
		id     int
		depth  int
		lo, hi bound // lo exclusive, hi inclusive
	}

	x := 0
	var stack []frame
	cur := frame{id: s.Root}
	for cur.id != NoParent || len(stack) > 0 {
		for cur.id != NoParent {
			stack = append(stack, cur)
			sn := s.nodes[cur.id]
			cur = frame{id: sn.left, depth: cur.depth + 1, lo: cur.lo, hi: bound{sn.node.Value, true}}
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := s.nodes[f.id].node

		if n.X != x {
			return errors.New(errors.ErrCodeInvalidArtifact, "node %d has x %d, in-order rank is %d", n.ID, n.X, x)
		}
		if n.Y != f.depth {
			return errors.New(errors.ErrCodeInvalidArtifact, "node %d has y %d, depth is %d", n.ID, n.Y, f.depth)
		}
		if (f.lo.set && n.Value <= f.lo.v) || (f.hi.set && n.Value > f.hi.v) {
			return errors.New(errors.ErrCodeInvalidArtifact, "node %d value %d breaks the ordering rule", n.ID, n.Value)
		}
		x++

		cur = frame{id: s.nodes[f.id].right, depth: f.depth + 1, lo: bound{n.Value, true}, hi: f.hi}
	}
	return nil
}
