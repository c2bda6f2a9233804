// Package pipeline turns a text blob of integers into a laid-out BST artifact.
//
// This package implements the complete tokenize → build → layout → serialize
// pipeline that both the CLI and the HTTP server use, so every entry point
// produces byte-identical artifacts for the same input and options.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Tokenize: Extract the integers from the input text
//  2. Build: Insert them into a BST in order of appearance
//  3. Layout: Assign x (in-order rank) and y (depth) to every node
//  4. Serialize: Encode the node and edge lists as JSON or DOT
//
// No stage keeps state between calls; the tree is released when the call
// returns.
//
// # Usage
//
// The one-shot boundary operation:
//
//	artifact, err := pipeline.BuildTreeJSON("8, 3, 10, 1, 6")
//
// With options and statistics:
//
//	result, err := pipeline.Build(input, pipeline.Options{Format: pipeline.FormatDOT})
//
// With memoization:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, input, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bstlayout/pkg/cache"
	"github.com/matzehuels/bstlayout/pkg/errors"
	"github.com/matzehuels/bstlayout/pkg/graph"
	"github.com/matzehuels/bstlayout/pkg/tokenize"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// DefaultFormat is the default output format.
const DefaultFormat = FormatJSON

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, dot)", format)
	}
	return nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Tokenize options
	Malformed tokenize.MalformedPolicy `json:"malformed,omitempty"`
	Overflow  tokenize.OverflowPolicy  `json:"overflow,omitempty"`
	MaxTokens int                      `json:"max_tokens,omitempty"`

	// Serialize options
	Format   string `json:"format,omitempty"`
	Indent   bool   `json:"indent,omitempty"`
	Detailed bool   `json:"detailed,omitempty"` // DOT only: add id, x and y to labels

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks option values and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	tok := o.TokenizeOptions()
	if err := tok.Validate(); err != nil {
		return err
	}
	o.Malformed, o.Overflow = tok.Malformed, tok.Overflow

	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// TokenizeOptions returns the tokenizer configuration.
func (o *Options) TokenizeOptions() tokenize.Options {
	return tokenize.Options{
		Malformed: o.Malformed,
		Overflow:  o.Overflow,
		MaxTokens: o.MaxTokens,
	}
}

// ArtifactKeyOpts returns cache key options for the artifact.
// Call after ValidateAndSetDefaults so defaults and explicit values share keys.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    o.Format,
		Indent:    o.Indent,
		Detailed:  o.Detailed,
		Malformed: string(o.Malformed),
		Overflow:  string(o.Overflow),
		MaxTokens: o.MaxTokens,
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the laid-out node and edge lists.
	// Nil when the artifact was served from cache.
	Graph *graph.Graph

	// Format is the encoding of Artifact.
	Format string

	// Artifact is the encoded output.
	Artifact []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether Artifact came from cache.
	CacheHit bool
}

// ContentType returns the MIME type of the artifact.
func (r *Result) ContentType() string {
	if r.Format == FormatDOT {
		return "text/vnd.graphviz"
	}
	return "application/json"
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TokenCount    int
	NodeCount     int
	EdgeCount     int
	Height        int
	Bytes         int
	TokenizeTime  time.Duration
	BuildTime     time.Duration
	LayoutTime    time.Duration
	SerializeTime time.Duration
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.TokenizeTime + s.BuildTime + s.LayoutTime + s.SerializeTime
}
