package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bstlayout/pkg/buildinfo"
	"github.com/matzehuels/bstlayout/pkg/cache"
	"github.com/matzehuels/bstlayout/pkg/config"
	"github.com/matzehuels/bstlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// In and Out carry artifact data; status lines go to stderr.
	In  io.Reader
	Out io.Writer

	configPath string
	cfg        *config.Config

	verbose   bool
	logFormat string
}

// New creates a new CLI instance logging to w at info level. The level and
// format are adjusted from config and flags before any command runs.
func New(w io.Writer) *CLI {
	return &CLI{
		Logger: newLogger(w, log.InfoLevel),
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "bstlayout lays out binary search trees built from integer text",
		Long: `bstlayout reads a text blob containing integers, inserts them into a binary
search tree in order of appearance, assigns every node an x (in-order rank) and
y (depth) coordinate, and emits the node and edge lists as JSON or Graphviz DOT.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setupLogging(cmd); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: ~/.config/bstlayout/config.toml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&c.logFormat, "log-format", "text", "log encoding: text, json, or logfmt")
	completeValues(root, "log-format", config.LogFormats...)

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setupLogging applies [log] from the config file, then --verbose and
// --log-format. A config file that fails to load is reported later by the
// commands that need it.
func (c *CLI) setupLogging(cmd *cobra.Command) error {
	level, format := "info", "text"
	if cfg, err := c.config(); err == nil {
		level, format = cfg.Log.Level, cfg.Log.Format
	}
	if c.verbose {
		level = "debug"
	}
	if cmd.Flags().Changed("log-format") {
		format = c.logFormat
	}
	return configureLogger(c.Logger, level, format)
}

// config loads the config file once. Commands that do not need it never
// trigger a load, so a broken file does not block "config path".
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(useCache bool, ttl config.Duration) (*pipeline.Runner, error) {
	cache, err := newCache(useCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cache, nil, c.Logger)
	r.TTL = ttl.Duration
	return r, nil
}

func newCache(useCache bool) (cache.Cache, error) {
	if !useCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/bstlayout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
