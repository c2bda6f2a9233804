package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/bstlayout/pkg/bst"
	"github.com/matzehuels/bstlayout/pkg/observability"
	"github.com/matzehuels/bstlayout/pkg/tokenize"
)

// Tokenize extracts the integers from input according to opts.
func Tokenize(ctx context.Context, input string, opts tokenize.Options) ([]int64, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageTokenize)
	start := time.Now()

	values, err := tokenize.Tokenize(input, opts)

	hooks.OnStageComplete(ctx, observability.StageTokenize, len(values), time.Since(start), err)
	return values, err
}

// BuildTree inserts values into a new BST in slice order.
func BuildTree(ctx context.Context, values []int64) *bst.Tree {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageBuild)
	start := time.Now()

	t := bst.Build(values)

	hooks.OnStageComplete(ctx, observability.StageBuild, t.Len(), time.Since(start), nil)
	return t
}
