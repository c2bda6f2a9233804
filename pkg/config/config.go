// Package config loads bstlayout settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/bstlayout/config.toml, falling back to
// ~/.config/bstlayout/config.toml. A missing file is not an error: Load
// returns Default(). Command-line flags override file values.
//
//	[tokenize]
//	malformed = "reject"   # reject | skip
//	overflow  = "reject"   # reject | saturate
//	max_tokens = 0
//
//	[output]
//	format = "json"        # json | dot
//	indent = false
//
//	[cache]
//	enabled = false
//	redis_addr = ""
//	ttl = "24h"
//	max_entries = 1024     # in-process cache size for serve without Redis
//
//	[server]
//	addr = ":8080"
//	max_body_bytes = 1048576
//
//	[log]
//	level = "info"         # debug | info | warn | error
//	format = "text"        # text | json | logfmt
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bstlayout/pkg/cache"
	"github.com/matzehuels/bstlayout/pkg/errors"
	"github.com/matzehuels/bstlayout/pkg/pipeline"
	"github.com/matzehuels/bstlayout/pkg/tokenize"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// AppName names the config and cache directories.
	AppName = "bstlayout"

	// FileName is the config file name inside the config directory.
	FileName = "config.toml"

	// DefaultAddr is the default HTTP listen address.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes caps request bodies accepted by the server.
	DefaultMaxBodyBytes = 1 << 20
)

// Log levels and formats accepted in the [log] table.
var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"text", "json", "logfmt"}
)

// =============================================================================
// Config
// =============================================================================

// Config is the full set of file-backed settings.
type Config struct {
	Tokenize Tokenize `toml:"tokenize"`
	Output   Output   `toml:"output"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
	Log      Log      `toml:"log"`
}

// Tokenize configures malformed-token and overflow handling.
type Tokenize struct {
	Malformed string `toml:"malformed"`
	Overflow  string `toml:"overflow"`
	MaxTokens int    `toml:"max_tokens"`
}

// Output configures the artifact encoding.
type Output struct {
	Format string `toml:"format"`
	Indent bool   `toml:"indent"`
}

// Cache configures artifact memoization.
type Cache struct {
	Enabled    bool     `toml:"enabled"`
	RedisAddr  string   `toml:"redis_addr"`
	TTL        Duration `toml:"ttl"`
	MaxEntries int      `toml:"max_entries"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// Log configures logger verbosity and encoding.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration written as a string ("24h", "90m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tokenize: Tokenize{
			Malformed: string(tokenize.MalformedReject),
			Overflow:  string(tokenize.OverflowReject),
		},
		Output: Output{
			Format: pipeline.DefaultFormat,
		},
		Cache: Cache{
			TTL:        Duration{cache.TTLArtifact},
			MaxEntries: cache.DefaultMemoryEntries,
		},
		Server: Server{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks enum values and ranges.
func (c Config) Validate() error {
	if err := errors.ValidateOneOf("tokenize.malformed", c.Tokenize.Malformed,
		string(tokenize.MalformedReject), string(tokenize.MalformedSkip)); err != nil {
		return err
	}
	if err := errors.ValidateOneOf("tokenize.overflow", c.Tokenize.Overflow,
		string(tokenize.OverflowReject), string(tokenize.OverflowSaturate)); err != nil {
		return err
	}
	if c.Tokenize.MaxTokens < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "tokenize.max_tokens cannot be negative: %d", c.Tokenize.MaxTokens)
	}
	if err := errors.ValidateOneOf("output.format", c.Output.Format,
		pipeline.FormatJSON, pipeline.FormatDOT); err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache.ttl cannot be negative: %s", c.Cache.TTL)
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache.max_entries cannot be negative: %d", c.Cache.MaxEntries)
	}
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidOption, "server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidOption, "server.max_body_bytes must be positive: %d", c.Server.MaxBodyBytes)
	}
	if err := errors.ValidateOneOf("log.level", c.Log.Level, LogLevels...); err != nil {
		return err
	}
	return errors.ValidateOneOf("log.format", c.Log.Format, LogFormats...)
}

// PipelineOptions returns pipeline options seeded from the file values.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Malformed: tokenize.MalformedPolicy(c.Tokenize.Malformed),
		Overflow:  tokenize.OverflowPolicy(c.Tokenize.Overflow),
		MaxTokens: c.Tokenize.MaxTokens,
		Format:    c.Output.Format,
		Indent:    c.Output.Indent,
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the config file at path, or the default location when path is
// empty. A missing file at the default location yields Default(); a missing
// file at an explicit path is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg, err := LoadFile(path)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads and validates a config file.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses TOML from r on top of Default() and validates the result.
// Unknown keys are rejected so typos do not pass silently.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidOption, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidOption, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory using the XDG standard
// (~/.config/bstlayout/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}
