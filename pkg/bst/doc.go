// Package bst provides an unbalanced binary search tree with a deterministic
// two-dimensional layout.
//
// # Overview
//
// Values are inserted in the order they are given. There is no rebalancing,
// so the shape of the tree depends entirely on insertion order: sorted input
// produces a chain, shuffled input a bushier tree.
//
// The comparison rule is fixed: a value that is less than or equal to a node's
// value descends into the left subtree, a strictly greater value descends
// right. Equal values therefore always go left, and "5,5,5" builds a
// left-leaning chain.
//
// # Storage
//
// Nodes live in an arena ([]Node) owned by the [Tree]. Node ids are assigned
// from 1 in insertion order and double as arena indexes (id-1). Child and
// parent links are stored as ids, with [NoNode] (0) meaning "absent". The whole
// tree is released with the Tree value; there is no teardown routine.
//
// # Layout
//
// [Tree.AssignLayout] gives every node an X coordinate equal to its rank in an
// in-order traversal (0-based, no gaps). The Y coordinate is the node's depth,
// fixed when the node is created. Both are read back through [Node].
//
//	t := bst.Build([]int64{8, 3, 10, 1, 6})
//	t.AssignLayout()
//	t.InOrder(func(n bst.Node) bool {
//	    fmt.Println(n.Value, n.X, n.Depth)
//	    return true
//	})
//
// A Tree is not safe for concurrent mutation.
package bst
