package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/festivo/notify-api/config"
	"github.com/festivo/notify-api/internal/adapters/sweeprunner"
)

// RunConfig groups the dependencies for running the enabled services.
type RunConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the enabled services and blocks until
// SIGINT/SIGTERM, then shuts everything down gracefully.
func RunServicesWithShutdown(cfg *RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	var server *http.Server
	if cfg.Config.IsHTTPServerEnabled() {
		server = StartHTTPServer(&HTTPServerConfig{
			Config:   cfg.Config,
			Services: cfg.Services,
			Logger:   logger,
		})
	}

	if cfg.Config.IsSweeperEnabled() {
		runner, err := sweeprunner.NewRunner(sweeprunner.Options{
			Sweeper: cfg.Services.Sweep,
			Spec:    cfg.Config.Sweep.Cron,
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("create sweep runner: %w", err)
		}
		g.Go(func() error {
			return runner.Run(gctx)
		})
	}

	<-gctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Config.HTTP.ShutdownTimeout)
	defer cancel()

	if err := ShutdownHTTPServer(shutdownCtx, server, logger); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("service runtime: %w", err)
	}
	return nil
}
