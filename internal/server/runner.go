// Package server runs the HTTP API alongside background cache maintenance.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/moviecat/internal/catalog"
)

// Sweeper removes expired cache entries.
type Sweeper interface {
	Sweep(ctx context.Context) (catalog.SweepResult, error)
}

// Config for the runner.
type Config struct {
	Addr            string
	SweepInterval   time.Duration // zero disables sweeping
	ShutdownTimeout time.Duration
}

// Runner manages the HTTP server and the sweeper.
type Runner struct {
	handler http.Handler
	sweeper Sweeper
	config  Config
	logger  *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(handler http.Handler, sweeper Sweeper, cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	return &Runner{
		handler: handler,
		sweeper: sweeper,
		config:  cfg,
		logger:  logger,
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	return r.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully.
// It returns nil after a clean shutdown.
func (r *Runner) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		r.logger.Info("http server stopped")
		return nil
	})

	if r.sweeper != nil && r.config.SweepInterval > 0 {
		g.Go(func() error {
			r.sweepLoop(gctx)
			return nil
		})
	}

	return g.Wait()
}

func (r *Runner) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(r.config.SweepInterval)
	defer ticker.Stop()

	log := r.logger.With("component", "sweeper")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			res, err := r.sweeper.Sweep(ctx)
			if err != nil {
				log.Warn("sweep failed", "error", err)
				continue
			}
			log.Debug("sweep complete",
				"memory", res.Memory,
				"persistent", res.Persistent,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
	}
}
