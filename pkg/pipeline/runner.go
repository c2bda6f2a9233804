package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bstlayout/pkg/cache"
	"github.com/matzehuels/bstlayout/pkg/observability"
)

// cacheKeyType labels artifact entries in cache hooks.
const cacheKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. It never stores
// trees, only encoded artifacts. Multiple goroutines can safely use the same
// Runner with different inputs and options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts. Zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the pipeline, serving the artifact from cache when an
// identical input was built with identical options before.
//
// Cache failures are logged and otherwise ignored; the pipeline result is
// authoritative.
func (r *Runner) Execute(ctx context.Context, input string, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	key := r.Keyer.ArtifactKey(cache.HashString(input), opts.ArtifactKeyOpts())
	hooks := observability.Cache()

	data, hit, err := r.Cache.Get(ctx, key)
	switch {
	case err != nil:
		r.Logger.Warn("cache read failed", "error", err)
	case hit:
		hooks.OnCacheHit(ctx, cacheKeyType)
		r.Logger.Debug("cache hit", "key", key, "bytes", len(data))
		return &Result{
			Format:   opts.Format,
			Artifact: data,
			Stats:    Stats{Bytes: len(data)},
			CacheHit: true,
		}, nil
	default:
		hooks.OnCacheMiss(ctx, cacheKeyType)
	}

	result, err := BuildContext(ctx, input, opts)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("built artifact",
		"format", result.Format,
		"nodes", result.Stats.NodeCount,
		"height", result.Stats.Height,
		"bytes", result.Stats.Bytes,
		"duration", result.Stats.Total())

	if err := r.Cache.Set(ctx, key, result.Artifact, r.ttl()); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, cacheKeyType, len(result.Artifact))
	}

	return result, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
