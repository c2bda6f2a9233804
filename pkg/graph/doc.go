// Package graph provides the serialization format for laid-out trees.
//
// This package defines the artifact that crosses the system boundary: a list
// of nodes and a list of parent→child edges, with every cross reference made
// by node id rather than by address.
//
// # Graph Serialization
//
// Graphs use a compact node-link JSON format:
//
//	{
//	  "nodes": [{"id": 1, "value": 5, "x": 0, "y": 0, "parent": 0}],
//	  "edges": []
//	}
//
// The root's parent is 0, which is never a valid node id.
//
// Ordering is stable so the encoding can be compared byte for byte:
//   - Nodes are emitted in in-order sequence (ascending x).
//   - Edges are emitted pre-order: a node's left edge, then its right edge,
//     then the edges of its left subtree, then those of its right subtree.
//
// Common operations:
//
//	g := graph.FromTree(tree)                       // laid-out tree → Graph
//	data, _ := graph.Marshal(g)                     // Graph → compact JSON
//	graph.WriteGraph(g, w, graph.WithIndent())      // Graph → indented JSON
//	parsed, _ := graph.Unmarshal(data)              // JSON → Graph
//
// # Checking Artifacts
//
// [Graph.Validate] checks the structural invariants of a decoded artifact, and
// [Reconstruct] / [ShapeFromParents] rebuild the tree shape from the edge list
// and from the parent fields respectively, so the two can be compared.
//
// # DOT Export
//
// [ToDOT] writes the artifact as Graphviz DOT text with pinned positions, for
// renderers that speak DOT. Rendering itself is left to the consumer.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
