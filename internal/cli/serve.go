package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bstlayout/pkg/cache"
	"github.com/matzehuels/bstlayout/pkg/config"
	"github.com/matzehuels/bstlayout/pkg/observability"
	"github.com/matzehuels/bstlayout/pkg/pipeline"
	"github.com/matzehuels/bstlayout/pkg/server"
)

// serverKeyPrefix namespaces server entries in a shared Redis.
const serverKeyPrefix = appName + ":"

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Long: `Serve the pipeline over HTTP.

Endpoints:
  POST /api/v1/tree   build an artifact (raw text or JSON body)
  GET  /healthz       liveness probe
  GET  /version       build information
  GET  /metrics       Prometheus metrics

Artifacts are memoized in Redis when --redis (or cache.redis_addr) is set,
otherwise in an in-process LRU of cache.max_entries artifacts when
cache.enabled is true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("redis") {
				cfg.Cache.RedisAddr = redisAddr
			}
			if noCache {
				cfg.Cache.Enabled = false
				cfg.Cache.RedisAddr = ""
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the artifact cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	store, err := c.serverCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, serverKeyPrefix), c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	defer runner.Close()

	metrics := observability.NewMetrics()
	metrics.Register()
	defer observability.Reset()

	srv := server.New(runner, c.Logger, server.Options{
		Addr:         cfg.Server.Addr,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Defaults:     cfg.PipelineOptions(),
		Metrics:      metrics,
	})
	return srv.Run(ctx)
}

// serverCache picks Redis, an in-process LRU, or no cache.
func (c *CLI) serverCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	if cfg.RedisAddr != "" {
		var store cache.Cache
		err := withSpinner(ctx, "Connecting to Redis at "+cfg.RedisAddr, "Connected to Redis", func(ctx context.Context) error {
			var err error
			store, err = cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.RedisAddr})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		return store, nil
	}
	if cfg.Enabled {
		return cache.NewMemoryCache(cfg.MaxEntries, cfg.TTL.Duration), nil
	}
	return cache.NewNullCache(), nil
}
