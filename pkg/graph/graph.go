package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// WriteOption configures WriteGraph and WriteGraphFile.
type WriteOption func(*writeConfig)

type writeConfig struct {
	indent bool
}

// WithIndent pretty-prints the output with two-space indentation.
func WithIndent() WriteOption { return func(c *writeConfig) { c.indent = true } }

// WithIndentIf pretty-prints when on is true. Convenient for flag plumbing.
func WithIndentIf(on bool) WriteOption { return func(c *writeConfig) { c.indent = on } }

// Marshal encodes g as compact JSON with no trailing newline.
// The output is byte-stable for a given tree shape.
func Marshal(g Graph) ([]byte, error) {
	data, err := json.Marshal(normalize(g))
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteGraph writes g as JSON to an io.Writer, followed by a newline.
// Use Marshal for in-memory serialization or WriteGraphFile for files.
func WriteGraph(g Graph, w io.Writer, opts ...WriteOption) error {
	return writeGraphTo(g, w, opts)
}

// WriteGraphFile writes g to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g Graph, path string, opts ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f, opts)
}

// Unmarshal decodes JSON bytes into a Graph.
func Unmarshal(data []byte) (Graph, error) {
	return readGraphFrom(bytes.NewReader(data))
}

// ReadGraph decodes a JSON graph from an io.Reader.
// The result is not validated; call Validate for that.
func ReadGraph(r io.Reader) (Graph, error) {
	return readGraphFrom(r)
}

// ReadGraphFile reads a JSON file and returns the decoded Graph.
func ReadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g Graph, w io.Writer, opts []WriteOption) error {
	var cfg writeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	enc := json.NewEncoder(w)
	if cfg.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(normalize(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	return normalize(g), nil
}

// normalize replaces nil slices so they encode as [] rather than null.
func normalize(g Graph) Graph {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	return g
}
