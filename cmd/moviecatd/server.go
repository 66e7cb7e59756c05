package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/moviecat/internal/api/v1"
	"github.com/vmunix/moviecat/internal/cache"
	"github.com/vmunix/moviecat/internal/catalog"
	"github.com/vmunix/moviecat/internal/config"
	"github.com/vmunix/moviecat/internal/images"
	"github.com/vmunix/moviecat/internal/migrations"
	"github.com/vmunix/moviecat/internal/server"
	"github.com/vmunix/moviecat/pkg/kinopoisk"
)

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runServer(configPath string) error {
	if configPath == "" {
		p, err := config.Discover()
		if err != nil {
			return err
		}
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	logger.Info("starting moviecatd", "version", version, "config", configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tier, closeTier, err := openTier(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeTier.Close() }()

	syncer := newSynchronizer(cfg, tier, logger)

	policy, _ := catalog.ParsePolicy(cfg.Sync.DefaultPolicy)
	tierDefault, _ := images.ParseTier(cfg.Images.DefaultTier)
	api, err := v1.New(v1.ServerDeps{
		Catalog: syncer,
		Images:  newResolver(cfg.Images),
	}, v1.Config{DefaultPolicy: policy, DefaultTier: tierDefault}, logger)
	if err != nil {
		return err
	}

	runner := server.NewRunner(api.Handler(), syncer, server.Config{
		Addr:          cfg.Server.Addr(),
		SweepInterval: cfg.Cache.SweepInterval,
	}, logger)

	if err := runner.Run(ctx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func newSynchronizer(cfg *config.Config, tier cache.Tier, logger *slog.Logger) *catalog.Synchronizer {
	client := kinopoisk.New(cfg.API.APIKey,
		kinopoisk.WithBaseURL(cfg.API.BaseURL),
		kinopoisk.WithTimeout(cfg.API.Timeout),
		kinopoisk.WithPageSize(cfg.API.PageSize),
		kinopoisk.WithLogger(logger),
	)

	opts := []catalog.Option{catalog.WithLogger(logger)}
	if tier != nil {
		opts = append(opts, catalog.WithTier(tier))
	}
	return catalog.New(client, catalog.Config{
		PageTTL:          cfg.Cache.PageTTL,
		DetailTTL:        cfg.Cache.DetailTTL,
		MaxPages:         cfg.Cache.MaxPages,
		MaxDetails:       cfg.Cache.MaxDetails,
		StaleRetention:   cfg.Cache.StaleRetention,
		DefaultRetryWait: cfg.Sync.DefaultRetryWait,
		MaxRetryWait:     cfg.Sync.MaxRetryWait,
	}, opts...)
}

func newResolver(cfg config.ImagesConfig) *images.Resolver {
	var opts []images.Option
	if cfg.BaseURL != "" {
		opts = append(opts, images.WithBaseURL(cfg.BaseURL))
	}
	if len(cfg.SizedHosts) > 0 {
		opts = append(opts, images.WithSizedHosts(cfg.SizedHosts...))
	}
	return images.NewResolver(opts...)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openTier opens the configured persistent tier. A nil tier means the
// cache lives in memory only.
func openTier(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (cache.Tier, io.Closer, error) {
	p := cfg.Persistent
	switch p.Backend {
	case "", "none":
		logger.Info("persistent cache disabled")
		return nil, nopCloser{}, nil

	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(p.Path), 0755); err != nil {
			return nil, nil, fmt.Errorf("create cache dir: %w", err)
		}
		db, err := sql.Open("sqlite", p.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache db: %w", err)
		}
		if err := migrations.Apply(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("persistent cache", "backend", "sqlite", "path", p.Path)
		return cache.NewSQLiteTier(db, cfg.StaleRetention), db, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     p.Addr,
			Password: p.Password,
			DB:       p.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", p.Addr, err)
		}
		logger.Info("persistent cache", "backend", "redis", "addr", p.Addr)
		return cache.NewRedisTier(rdb, p.Prefix, cfg.StaleRetention), rdb, nil
	}
	return nil, nil, errors.New("unknown cache backend: " + p.Backend)
}
