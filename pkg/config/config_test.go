package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/bstlayout/pkg/errors"
	"github.com/matzehuels/bstlayout/pkg/pipeline"
	"github.com/matzehuels/bstlayout/pkg/tokenize"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Cache.TTL.Duration != 24*time.Hour {
		t.Errorf("Cache.TTL = %s, want 24h", cfg.Cache.TTL)
	}
}

func TestDecode(t *testing.T) {
	const input = `
[tokenize]
malformed = "skip"
overflow = "saturate"
max_tokens = 100

[output]
format = "dot"
indent = true

[cache]
enabled = true
redis_addr = "localhost:6379"
ttl = "90m"

[server]
addr = "127.0.0.1:9000"

[log]
level = "debug"
format = "json"
`
	cfg, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if cfg.Tokenize.Malformed != "skip" || cfg.Tokenize.Overflow != "saturate" || cfg.Tokenize.MaxTokens != 100 {
		t.Errorf("Tokenize = %+v", cfg.Tokenize)
	}
	if cfg.Output.Format != "dot" || !cfg.Output.Indent {
		t.Errorf("Output = %+v", cfg.Output)
	}
	if !cfg.Cache.Enabled || cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	// Unset keys keep their defaults.
	if cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("Server.MaxBodyBytes = %d, want %d", cfg.Server.MaxBodyBytes, DefaultMaxBodyBytes)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"BadMalformed", "[tokenize]\nmalformed = \"ignore\"\n"},
		{"BadOverflow", "[tokenize]\noverflow = \"wrap\"\n"},
		{"NegativeMax", "[tokenize]\nmax_tokens = -1\n"},
		{"BadFormat", "[output]\nformat = \"svg\"\n"},
		{"BadTTL", "[cache]\nttl = \"soon\"\n"},
		{"UnknownKey", "[output]\ncolour = \"red\"\n"},
		{"Syntax", "[output\n"},
		{"NegativeEntries", "[cache]\nmax_entries = -5\n"},
		{"ZeroBody", "[server]\nmax_body_bytes = 0\n"},
		{"BadLogLevel", "[log]\nlevel = \"trace\"\n"},
		{"BadLogFormat", "[log]\nformat = \"xml\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Decode should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidOption) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidOption)
			}
		})
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load without file = %+v, want defaults", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadFromXDG(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("[output]\nindent = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Output.Indent {
		t.Error("Output.Indent should be true")
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/xdg", AppName, FileName)
	if p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = pipeline.FormatDOT
	cfg.Cache.TTL = Duration{time.Hour}

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), `ttl = "1h0m0s"`) {
		t.Errorf("encoded TTL missing:\n%s", buf.String())
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Tokenize.Malformed = string(tokenize.MalformedSkip)
	cfg.Output.Indent = true

	opts := cfg.PipelineOptions()
	if opts.Malformed != tokenize.MalformedSkip {
		t.Errorf("Malformed = %q", opts.Malformed)
	}
	if !opts.Indent {
		t.Error("Indent should carry over")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("options from config should validate: %v", err)
	}
}
