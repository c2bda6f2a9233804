package graph

import (
	"bytes"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/bstlayout/pkg/bst"
	"github.com/matzehuels/bstlayout/pkg/errors"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
		want   string
	}{
		{
			name: "Empty",
			want: `{"nodes":[],"edges":[]}`,
		},
		{
			name:   "Single",
			values: []int64{5},
			want:   `{"nodes":[{"id":1,"value":5,"x":0,"y":0,"parent":0}],"edges":[]}`,
		},
		{
			name:   "Ascending",
			values: []int64{1, 2, 3},
			want: `{"nodes":[{"id":1,"value":1,"x":0,"y":0,"parent":0},` +
				`{"id":2,"value":2,"x":1,"y":1,"parent":1},` +
				`{"id":3,"value":3,"x":2,"y":2,"parent":2}],` +
				`"edges":[{"from":1,"to":2},{"from":2,"to":3}]}`,
		},
		{
			name:   "Duplicates",
			values: []int64{5, 5, 5},
			want: `{"nodes":[{"id":3,"value":5,"x":0,"y":2,"parent":2},` +
				`{"id":2,"value":5,"x":1,"y":1,"parent":1},` +
				`{"id":1,"value":5,"x":2,"y":0,"parent":0}],` +
				`"edges":[{"from":1,"to":2},{"from":2,"to":3}]}`,
		},
		{
			name:   "Mixed",
			values: []int64{8, 3, 10, 1, 6},
			want: `{"nodes":[{"id":4,"value":1,"x":0,"y":2,"parent":2},` +
				`{"id":2,"value":3,"x":1,"y":1,"parent":1},` +
				`{"id":5,"value":6,"x":2,"y":2,"parent":2},` +
				`{"id":1,"value":8,"x":3,"y":0,"parent":0},` +
				`{"id":3,"value":10,"x":4,"y":1,"parent":1}],` +
				`"edges":[{"from":1,"to":2},{"from":1,"to":3},{"from":2,"to":4},{"from":2,"to":5}]}`,
		},
		{
			name:   "Negative",
			values: []int64{0, -7},
			want: `{"nodes":[{"id":2,"value":-7,"x":0,"y":1,"parent":1},` +
				`{"id":1,"value":0,"x":1,"y":0,"parent":0}],` +
				`"edges":[{"from":1,"to":2}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(FromTree(bst.Build(tt.values)))
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if got := string(data); got != tt.want {
				t.Errorf("Marshal =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestMarshalNilSlices(t *testing.T) {
	data, err := Marshal(Graph{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got := string(data); got != `{"nodes":[],"edges":[]}` {
		t.Errorf("Marshal(Graph{}) = %s", got)
	}
}

func TestFromTreeAssignsLayout(t *testing.T) {
	tr := bst.Build([]int64{2, 1, 3})
	if tr.Laid() {
		t.Fatal("tree should not be laid out yet")
	}
	g := FromTree(tr)
	xs := make([]int, len(g.Nodes))
	for i, n := range g.Nodes {
		xs[i] = n.X
	}
	if !slices.Equal(xs, []int{0, 1, 2}) {
		t.Errorf("x = %v, want [0 1 2]", xs)
	}
}

func TestFromTreeCounts(t *testing.T) {
	for n := 0; n < 40; n++ {
		values := make([]int64, n)
		for i := range values {
			values[i] = int64((i * 7919) % 13)
		}
		g := FromTree(bst.Build(values))
		if g.NodeCount() != n {
			t.Errorf("n=%d: nodes = %d", n, g.NodeCount())
		}
		wantEdges := max(n-1, 0)
		if g.EdgeCount() != wantEdges {
			t.Errorf("n=%d: edges = %d, want %d", n, g.EdgeCount(), wantEdges)
		}
		if err := g.Validate(); err != nil {
			t.Errorf("n=%d: Validate: %v", n, err)
		}
	}
}

func TestWriteGraphIndent(t *testing.T) {
	g := FromTree(bst.Build([]int64{1, 2}))

	var compact, pretty bytes.Buffer
	if err := WriteGraph(g, &compact); err != nil {
		t.Fatalf("WriteGraph: %v", err)
	}
	if err := WriteGraph(g, &pretty, WithIndent()); err != nil {
		t.Fatalf("WriteGraph indent: %v", err)
	}

	data, _ := Marshal(g)
	if compact.String() != string(data)+"\n" {
		t.Errorf("compact WriteGraph = %q, want Marshal output plus newline", compact.String())
	}
	if !strings.Contains(pretty.String(), "\n  \"nodes\": [") {
		t.Errorf("indented output missing two-space indent:\n%s", pretty.String())
	}
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantErr   bool
	}{
		{
			name: "Valid",
			input: `{
				"nodes": [
					{"id": 2, "value": 1, "x": 0, "y": 1, "parent": 1},
					{"id": 1, "value": 4, "x": 1, "y": 0, "parent": 0}
				],
				"edges": [
					{"from": 1, "to": 2}
				]
			}`,
			wantNodes: 2,
			wantEdges: 1,
		},
		{
			name:      "Empty",
			input:     `{"nodes": [], "edges": []}`,
			wantNodes: 0,
			wantEdges: 0,
		},
		{
			name:      "MissingFields",
			input:     `{}`,
			wantNodes: 0,
			wantEdges: 0,
		},
		{
			name:    "Invalid",
			input:   `{invalid json}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			if got := g.NodeCount(); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := g.EdgeCount(); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			if g.Nodes == nil || g.Edges == nil {
				t.Error("decoded slices should be non-nil")
			}
		})
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	g := FromTree(bst.Build([]int64{50, 30, 70, 20, 40, 60, 80}))
	path := filepath.Join(t.TempDir(), "tree.json")

	if err := WriteGraphFile(g, path, WithIndent()); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if !slices.Equal(got.Nodes, g.Nodes) || !slices.Equal(got.Edges, g.Edges) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, g)
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want not-exist", err)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Graph { return FromTree(bst.Build([]int64{8, 3, 10, 1, 6})) }

	tests := []struct {
		name   string
		mutate func(g *Graph)
	}{
		{"missing edge", func(g *Graph) { g.Edges = g.Edges[:len(g.Edges)-1] }},
		{"edge to unknown node", func(g *Graph) { g.Edges[0].To = 99 }},
		{"duplicate id", func(g *Graph) { g.Nodes[1].ID = g.Nodes[0].ID }},
		{"zero id", func(g *Graph) { g.Nodes[0].ID = 0 }},
		{"two roots", func(g *Graph) { g.Nodes[0].Parent = NoParent }},
		{"parent disagrees with edges", func(g *Graph) { g.Nodes[2].Parent = 1 }},
		{"x not in-order rank", func(g *Graph) { g.Nodes[0].X, g.Nodes[1].X = g.Nodes[1].X, g.Nodes[0].X }},
		{"y not depth", func(g *Graph) { g.Nodes[3].Y = 1 }},
		{"ordering rule broken", func(g *Graph) { g.Nodes[2].Value = 9 }},
		{"edges on empty graph", func(g *Graph) { g.Nodes = nil }},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid graph failed: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid()
			tt.mutate(&g)
			err := g.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidArtifact) {
				t.Errorf("Validate() = %v, want %s", err, errors.ErrCodeInvalidArtifact)
			}
		})
	}
}
