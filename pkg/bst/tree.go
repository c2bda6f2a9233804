package bst

// NodeID identifies a node within a Tree. Ids start at 1 and increase in
// insertion order.
type NodeID int

// NoNode marks an absent child or the root's parent. It is never assigned to
// a node.
const NoNode NodeID = 0

// Node is one inserted value.
//
// Parent and Depth are fixed when the node is created. X is zero until
// [Tree.AssignLayout] has run.
type Node struct {
	ID     NodeID
	Value  int64
	Left   NodeID
	Right  NodeID
	Parent NodeID
	Depth  int
	X      int
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool { return n.Parent == NoNode }

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool { return n.Left == NoNode && n.Right == NoNode }

// Tree is an arena-backed binary search tree.
//
// The zero value is an empty tree ready for use.
type Tree struct {
	nodes  []Node
	height int
	laid   bool
}

// New creates an empty tree with room for n nodes.
func New(n int) *Tree {
	return &Tree{nodes: make([]Node, 0, n)}
}

// Build inserts values in order into a new tree. An empty slice yields an
// empty tree.
func Build(values []int64) *Tree {
	t := New(len(values))
	for _, v := range values {
		t.Insert(v)
	}
	return t
}

// Insert adds v and returns the id of the new node.
//
// Descent is iterative: v <= node.Value goes left, otherwise right. The new
// node takes the next id, its parent is the node whose empty slot it fills,
// and its depth is that parent's depth plus one. Existing nodes are never
// touched except for the one child link that now points at the new node.
func (t *Tree) Insert(v int64) NodeID {
	id := NodeID(len(t.nodes) + 1)
	n := Node{ID: id, Value: v}

	if len(t.nodes) > 0 {
		cur := t.at(1)
		for {
			if v <= cur.Value {
				if cur.Left == NoNode {
					cur.Left = id
					break
				}
				cur = t.at(cur.Left)
			} else {
				if cur.Right == NoNode {
					cur.Right = id
					break
				}
				cur = t.at(cur.Right)
			}
		}
		n.Parent = cur.ID
		n.Depth = cur.Depth + 1
	}

	t.nodes = append(t.nodes, n)
	t.height = max(t.height, n.Depth+1)
	t.laid = false
	return id
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Empty reports whether the tree has no nodes.
func (t *Tree) Empty() bool { return len(t.nodes) == 0 }

// Height returns the number of levels: 0 for an empty tree, 1 for a single
// node.
func (t *Tree) Height() int { return t.height }

// Root returns the root's id, or NoNode for an empty tree. The first inserted
// value is always the root.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return NoNode
	}
	return 1
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if id <= NoNode || int(id) > len(t.nodes) {
		return Node{}, false
	}
	return t.nodes[id-1], true
}

// Nodes returns copies of all nodes in insertion (id) order.
func (t *Tree) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// at returns the arena slot for id. The caller guarantees id is valid.
func (t *Tree) at(id NodeID) *Node {
	return &t.nodes[id-1]
}
