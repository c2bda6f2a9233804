// Package pkg provides the core libraries for bstlayout.
//
// # Overview
//
// bstlayout turns a text blob of integers into a binary search tree with a
// deterministic 2-D layout and emits the node and edge lists for a renderer
// to draw. The pkg directory is organized into three areas:
//
//  1. Domain logic: [tokenize], [bst], [graph]
//  2. Orchestration: [pipeline]
//  3. Infrastructure: [cache], [config], [server], [observability], [errors]
//
// # Architecture
//
// The data flow through bstlayout:
//
//	"8, 3, 10, 1, 6"
//	         ↓
//	    [tokenize] package (extract integers)
//	         ↓
//	    [bst] package (insert in order, equal values left; assign x and y)
//	         ↓
//	    [graph] package (node and edge lists, JSON or DOT)
//
// # Quick Start
//
//	out, err := pipeline.BuildTreeJSON("8, 3, 10, 1, 6")
//
// Or stage by stage:
//
//	values, _ := tokenize.Tokenize(input, tokenize.Options{})
//	t := bst.Build(values)
//	t.AssignLayout()
//	data, _ := graph.Marshal(graph.FromTree(t))
//
// # Main Packages
//
// [tokenize] - Integer extraction with explicit malformed-token and
// overflow policies.
//
// [bst] - Arena-backed binary search tree with iterative insertion and
// in-order layout.
//
// [graph] - The artifact format: serialization, reconstruction from edges,
// validation, and DOT export.
//
// [pipeline] - tokenize → build → layout → serialize, shared by the CLI and
// the HTTP server, with optional memoization through a [cache.Cache].
//
// [cache] - Null, file and Redis backends for encoded artifacts.
//
// [config] - TOML configuration file.
//
// [server] - HTTP API on chi.
//
// [observability] - Hooks for metrics and tracing backends.
//
// [errors] - Structured errors with machine-readable codes.
//
// # Testing
//
//	go test ./pkg/...         # All tests
//	go test ./pkg/bst/...     # Specific package
//	go test -run Example      # Examples only
//
// [tokenize]: https://pkg.go.dev/github.com/matzehuels/bstlayout/pkg/tokenize
// [bst]: https://pkg.go.dev/github.com/matzehuels/bstlayout/pkg/bst
// [graph]: https://pkg.go.dev/github.com/matzehuels/bstlayout/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bstlayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/bstlayout/pkg/cache
// [cache.Cache]: https://pkg.go.dev/github.com/matzehuels/bstlayout/pkg/cache#Cache
// [config]: https://pkg.go.dev/github.com/matzehuels/bstlayout/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/bstlayout/pkg/server
// [observability]: https://pkg.go.dev/github.com/matzehuels/bstlayout/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/bstlayout/pkg/errors
package pkg
