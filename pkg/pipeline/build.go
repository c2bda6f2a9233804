package pipeline

import (
	"context"
	"fmt"
	"time"
)

// BuildTreeJSON runs the full pipeline with default options and returns the
// compact JSON artifact. Input without integers yields
// {"nodes":[],"edges":[]}.
func BuildTreeJSON(input string) (string, error) {
	result, err := Build(input, Options{})
	if err != nil {
		return "", err
	}
	return string(result.Artifact), nil
}

// Build runs tokenize → build → layout → serialize on input.
func Build(input string, opts Options) (*Result, error) {
	return BuildContext(context.Background(), input, opts)
}

// BuildContext is Build with a context passed to observability hooks.
// The pipeline itself never blocks, so ctx is only checked before starting.
func BuildContext(ctx context.Context, input string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Format: opts.Format}

	// Stage 1: Tokenize
	start := time.Now()
	values, err := Tokenize(ctx, input, opts.TokenizeOptions())
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	result.Stats.TokenizeTime = time.Since(start)
	result.Stats.TokenCount = len(values)

	// Stage 2: Build
	start = time.Now()
	tree := BuildTree(ctx, values)
	result.Stats.BuildTime = time.Since(start)
	result.Stats.Height = tree.Height()

	opts.Logger.Debug("built tree",
		"tokens", len(values),
		"height", tree.Height(),
		"duration", result.Stats.BuildTime)

	// Stage 3: Layout
	start = time.Now()
	g := Layout(ctx, tree)
	result.Stats.LayoutTime = time.Since(start)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.Graph = &g

	// Stage 4: Serialize
	start = time.Now()
	data, err := Serialize(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("serialize: %w", err)
	}
	result.Stats.SerializeTime = time.Since(start)
	result.Stats.Bytes = len(data)
	result.Artifact = data

	return result, nil
}
