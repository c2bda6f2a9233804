package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bstlayout/pkg/errors"
	"github.com/matzehuels/bstlayout/pkg/pipeline"
	"github.com/matzehuels/bstlayout/pkg/tokenize"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	input     string // literal input text (--input)
	output    string // output file path, stdout when empty
	format    string // json or dot
	indent    bool   // pretty-print JSON
	detailed  bool   // DOT labels with id and coordinates
	malformed string // reject or skip
	overflow  string // reject or saturate
	maxTokens int    // 0 = unlimited
	cache     bool   // memoize artifacts in the file cache
}

// buildCommand creates the build command, the CLI form of the pipeline.
func (c *CLI) buildCommand() *cobra.Command {
	var o buildOpts

	cmd := &cobra.Command{
		Use:   "build [file|-]",
		Short: "Build a laid-out BST artifact from integer text",
		Long: `Build a laid-out binary search tree from integer text.

Integers are read from the file argument, from stdin when the argument is "-"
or missing, or from --input. Every run of digits with an optional leading sign
is one integer; all other characters separate them. Values are inserted in
order of appearance, equal values going left.

The artifact lists every node (id, value, x, y, parent) in in-order sequence
and every parent→child edge in pre-order.`,
		Example: `  bstlayout build --input "8 3 10 1 6"
  echo "5,5,5" | bstlayout build --indent
  bstlayout build numbers.txt -f dot -o tree.dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args, o)
		},
	}

	cmd.Flags().StringVar(&o.input, "input", "", "input text (instead of a file or stdin)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: json (default), dot")
	cmd.Flags().BoolVar(&o.indent, "indent", false, "pretty-print JSON output")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "include id and coordinates in DOT labels")
	cmd.Flags().StringVar(&o.malformed, "malformed", "", "malformed token policy: reject (default), skip")
	cmd.Flags().StringVar(&o.overflow, "overflow", "", "out-of-range integer policy: reject (default), saturate")
	cmd.Flags().IntVar(&o.maxTokens, "max-tokens", 0, "maximum number of integers (0 = unlimited)")
	cmd.Flags().BoolVar(&o.cache, "cache", false, "memoize artifacts in the local cache")

	completeValues(cmd, "format", pipeline.FormatJSON, pipeline.FormatDOT)
	completeValues(cmd, "malformed", string(tokenize.MalformedReject), string(tokenize.MalformedSkip))
	completeValues(cmd, "overflow", string(tokenize.OverflowReject), string(tokenize.OverflowSaturate))

	return cmd
}

// runBuild resolves options, reads the input, runs the pipeline and writes
// the artifact.
func (c *CLI) runBuild(cmd *cobra.Command, args []string, o buildOpts) error {
	ctx := cmd.Context()

	cfg, err := c.config()
	if err != nil {
		return err
	}
	opts := cfg.PipelineOptions()
	applyBuildFlags(cmd, &opts, o)
	opts.Logger = c.Logger

	input, source, err := c.readInput(ctx, cmd, args, o.input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(o.cache || cfg.Cache.Enabled, cfg.Cache.TTL)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, input, opts)
	if err != nil {
		return err
	}
	prog.done("built tree", "source", source, "cached", result.CacheHit)
	if !result.CacheHit && result.Stats.TokenCount == 0 {
		printWarning("No integers found in %s", source)
	}

	if o.output == "" {
		return writeArtifact(c.Out, result.Artifact)
	}

	if err := errors.ValidatePath(o.output); err != nil {
		return err
	}
	if err := os.WriteFile(o.output, terminate(result.Artifact), 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", o.output, err)
	}

	printSuccess("Tree built")
	printFile(o.output)
	printStats(result.Stats, result.CacheHit)
	return nil
}

// applyBuildFlags overrides config values with flags the user actually set.
func applyBuildFlags(cmd *cobra.Command, opts *pipeline.Options, o buildOpts) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		opts.Format = o.format
	}
	if flags.Changed("indent") {
		opts.Indent = o.indent
	}
	if flags.Changed("detailed") {
		opts.Detailed = o.detailed
	}
	if flags.Changed("malformed") {
		opts.Malformed = tokenize.MalformedPolicy(o.malformed)
	}
	if flags.Changed("overflow") {
		opts.Overflow = tokenize.OverflowPolicy(o.overflow)
	}
	if flags.Changed("max-tokens") {
		opts.MaxTokens = o.maxTokens
	}
}

// readInput returns the input text and a short description of where it came
// from for log lines.
func (c *CLI) readInput(ctx context.Context, cmd *cobra.Command, args []string, literal string) (string, string, error) {
	logger := loggerFromContext(ctx)

	if cmd.Flags().Changed("input") {
		if len(args) > 0 {
			return "", "", errors.New(errors.ErrCodeInvalidOption, "use either --input or a file argument, not both")
		}
		logger.Debug("reading input", "source", "flag", "bytes", len(literal))
		return literal, "--input", nil
	}

	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(c.In)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		logger.Debug("reading input", "source", "stdin", "bytes", len(data))
		return string(data), "stdin", nil
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", errors.Wrap(errors.ErrCodeFileNotFound, err, "input file not found: %s", path)
		}
		return "", "", fmt.Errorf("read %s: %w", path, err)
	}
	logger.Debug("reading input", "source", path, "bytes", len(data))
	return string(data), path, nil
}

// writeArtifact writes data to w, ending with exactly one newline.
func writeArtifact(w io.Writer, data []byte) error {
	_, err := w.Write(terminate(data))
	return err
}

// terminate appends a newline unless data already ends with one.
func terminate(data []byte) []byte {
	if len(data) > 0 && data[len(data)-1] == '\n' {
		return data
	}
	out := make([]byte, len(data)+1)
	copy(out, data)
	out[len(data)] = '\n'
	return out
}
