package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/bstlayout/pkg/errors"
	"github.com/matzehuels/bstlayout/pkg/graph"
	"github.com/matzehuels/bstlayout/pkg/observability"
)

// Serialize encodes g in the format selected by opts.
//
// Compact JSON has no trailing newline; indented JSON and DOT end with one.
func Serialize(ctx context.Context, g graph.Graph, opts Options) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageSerialize)
	start := time.Now()

	data, err := serialize(g, opts)

	hooks.OnStageComplete(ctx, observability.StageSerialize, len(data), time.Since(start), err)
	return data, err
}

func serialize(g graph.Graph, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatJSON, "":
		if !opts.Indent {
			data, err := graph.Marshal(g)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize json")
			}
			return data, nil
		}
		var buf bytes.Buffer
		if err := graph.WriteGraph(g, &buf, graph.WithIndent()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize json")
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(graph.ToDOT(g, graph.DOTOptions{Detailed: opts.Detailed})), nil
	default:
		return nil, ValidateFormat(opts.Format)
	}
}
