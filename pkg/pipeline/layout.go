package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/bstlayout/pkg/bst"
	"github.com/matzehuels/bstlayout/pkg/graph"
	"github.com/matzehuels/bstlayout/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// Layout assigns coordinates to every node of t and projects the tree into
// its serialization form. x is the in-order rank and y the depth.
func Layout(ctx context.Context, t *bst.Tree) graph.Graph {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageLayout)
	start := time.Now()

	t.AssignLayout()
	g := graph.FromTree(t)

	hooks.OnStageComplete(ctx, observability.StageLayout, g.NodeCount(), time.Since(start), nil)
	return g
}
