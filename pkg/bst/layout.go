package bst

// AssignLayout sets X on every node to its in-order rank, starting at 0.
//
// It must run after the last Insert. Running it again on an unchanged tree
// assigns the same values. Depth is not touched.
func (t *Tree) AssignLayout() {
	x := 0
	t.walkInOrder(func(n *Node) bool {
		n.X = x
		x++
		return true
	})
	t.laid = true
}

// Laid reports whether AssignLayout has run since the last Insert.
func (t *Tree) Laid() bool { return t.laid }

// InOrder calls fn for each node in left, self, right order until fn returns
// false.
func (t *Tree) InOrder(fn func(Node) bool) {
	t.walkInOrder(func(n *Node) bool { return fn(*n) })
}

// PreOrder calls fn for each node in self, left, right order until fn
// returns false.
func (t *Tree) PreOrder(fn func(Node) bool) {
	if len(t.nodes) == 0 {
		return
	}
	stack := []NodeID{t.Root()}
	for len(stack) > 0 {
		n := t.at(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		if !fn(*n) {
			return
		}
		// Right is pushed first so the left subtree is visited first.
		if n.Right != NoNode {
			stack = append(stack, n.Right)
		}
		if n.Left != NoNode {
			stack = append(stack, n.Left)
		}
	}
}

// walkInOrder is an iterative in-order traversal. Degenerate trees built
// from sorted input are as deep as they are long, so no recursion.
func (t *Tree) walkInOrder(fn func(*Node) bool) {
	stack := make([]NodeID, 0, t.height)
	cur := t.Root()
	for cur != NoNode || len(stack) > 0 {
		for cur != NoNode {
			stack = append(stack, cur)
			cur = t.at(cur).Left
		}
		n := t.at(stack[len(stack)-1])
		stack = stack[:len(stack)-1]
		if !fn(n) {
			return
		}
		cur = n.Right
	}
}
