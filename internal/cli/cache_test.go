package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/matzehuels/bstlayout/pkg/cache"
	"github.com/matzehuels/bstlayout/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".cache", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheClear(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	silenceStatus(t)

	// Two distinct builds populate two entries.
	for _, input := range []string{"1 2", "3 4"} {
		if _, err := runCLI(t, "", "build", "--cache", "--input", input); err != nil {
			t.Fatalf("build: %v", err)
		}
	}

	dir, _ := cacheDir()
	if n := countFiles(t, dir); n != 2 {
		t.Fatalf("cache holds %d files, want 2", n)
	}

	if _, err := runCLI(t, "", "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Errorf("cache holds %d files after clear, want 0", n)
	}
}

func TestCachePath(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	out, err := runCLI(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("cache path = %q", got)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	_ = filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}

// silenceStatus redirects status lines for the duration of the test.
func silenceStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := statusOut
	statusOut = &buf
	t.Cleanup(func() { statusOut = prev })
	return &buf
}

func TestServerCacheSelection(t *testing.T) {
	c := New(io.Discard)
	ctx := context.Background()

	store, err := c.serverCache(ctx, config.Cache{Enabled: true, MaxEntries: 8})
	if err != nil {
		t.Fatalf("serverCache: %v", err)
	}
	if _, ok := store.(*cache.MemoryCache); !ok {
		t.Errorf("enabled without redis = %T, want *cache.MemoryCache", store)
	}

	store, err = c.serverCache(ctx, config.Cache{})
	if err != nil {
		t.Fatalf("serverCache: %v", err)
	}
	if _, ok := store.(cache.NullCache); !ok {
		t.Errorf("disabled = %T, want cache.NullCache", store)
	}
}

func TestServerCacheRedis(t *testing.T) {
	silenceStatus(t)
	mr := miniredis.RunT(t)
	c := New(io.Discard)

	store, err := c.serverCache(context.Background(), config.Cache{RedisAddr: mr.Addr()})
	if err != nil {
		t.Fatalf("serverCache: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*cache.RedisCache); !ok {
		t.Errorf("with redis_addr = %T, want *cache.RedisCache", store)
	}
}

func TestServerCacheRedisUnavailable(t *testing.T) {
	silenceStatus(t)
	c := New(io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.serverCache(ctx, config.Cache{RedisAddr: "127.0.0.1:1"}); err == nil {
		t.Error("serverCache with an unreachable redis should fail")
	}
}

func TestCacheStatsAndPrune(t *testing.T) {
	isolate(t)
	status := silenceStatus(t)

	if _, err := runCLI(t, "", "cache", "stats"); err != nil {
		t.Fatalf("cache stats on empty cache: %v", err)
	}
	if !strings.Contains(status.String(), "Cache is empty") {
		t.Errorf("status = %q, want empty-cache notice", status.String())
	}

	if _, err := runCLI(t, "", "build", "--cache", "--input", "4 2 6"); err != nil {
		t.Fatalf("build: %v", err)
	}
	status.Reset()
	if _, err := runCLI(t, "", "cache", "stats"); err != nil {
		t.Fatalf("cache stats: %v", err)
	}
	if !strings.Contains(status.String(), "Artifacts") {
		t.Errorf("stats output = %q", status.String())
	}

	// Nothing has expired, so --expired keeps the entry.
	if _, err := runCLI(t, "", "cache", "clear", "--expired"); err != nil {
		t.Fatalf("cache clear --expired: %v", err)
	}
	dir, _ := cacheDir()
	if n := countFiles(t, dir); n != 1 {
		t.Errorf("cache holds %d files after pruning, want 1", n)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
