// Package cli implements the bstlayout command-line interface.
//
// This package provides commands for building tree artifacts from integer
// text, converting and validating existing artifacts, serving the pipeline
// over HTTP, and managing the local artifact cache. The CLI is built using
// cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - build: Tokenize, build, lay out and serialize a tree
//   - dot: Convert a JSON artifact to Graphviz DOT
//   - validate: Check a JSON artifact against the layout invariants
//   - serve: Start the HTTP API
//   - cache: Manage the artifact cache
//   - config: Show the effective configuration
//
// # Logging
//
// Level and encoding come from the [log] config table; --verbose (-v) forces
// debug and --log-format picks text, json, or logfmt. Loggers are passed
// through context.Context as well as the CLI struct.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bstlayout/pkg/config"
	"github.com/matzehuels/bstlayout/pkg/errors"
)

// newLogger creates a logger with a short wall-clock timestamp
// ("14:32:01.45") that filters below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

var logFormatters = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// configureLogger sets l's level and formatter from their config names.
func configureLogger(l *log.Logger, level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOption, err, "invalid log level %q", level)
	}
	formatter, ok := logFormatters[format]
	if !ok {
		return errors.ValidateOneOf("log format", format, config.LogFormats...)
	}
	l.SetLevel(lvl)
	l.SetFormatter(formatter)
	return nil
}

// progress measures one CLI step. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at debug level with the elapsed time and any extra
// key-value pairs.
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Microsecond)
	p.logger.Debug(msg, append([]any{"elapsed", elapsed}, keyvals...)...)
}

// ctxKey is the type for context keys used in this package.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
