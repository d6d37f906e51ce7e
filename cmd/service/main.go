// Package main is the entry point for the artistly service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/artistly/internal/adapters/http"
	"github.com/jsamuelsen/artistly/internal/adapters/http/handlers"
	"github.com/jsamuelsen/artistly/internal/adapters/storage"
	"github.com/jsamuelsen/artistly/internal/app"
	"github.com/jsamuelsen/artistly/internal/platform/config"
	"github.com/jsamuelsen/artistly/internal/platform/logging"
	"github.com/jsamuelsen/artistly/internal/platform/telemetry"
	"github.com/jsamuelsen/artistly/internal/ports"
)

// Injected with -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, profile()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// profile selects configs/<profile>.yaml. Defaults to local.
func profile() string {
	if p := os.Getenv("APP_ENVIRONMENT"); p != "" {
		return p
	}

	return "local"
}

func run(ctx context.Context, profile string) (err error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)

	logger.InfoContext(ctx, "starting artistly",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("profile", profile),
		slog.String("storage_backend", cfg.Storage.Backend),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		// The signal context is already done here, so flush on a fresh one.
		err = errors.Join(err, telProvider.Shutdown(context.WithoutCancel(ctx)))
	}()

	state, health, err := wire(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, state.Close())
	}()

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.NewDefaultRouterConfig(logger, cfg, health, state))

	return serve(ctx, logger, server, cfg.Server)
}

// wire opens the configured storage backend and builds the application
// state and operational endpoints on top of it.
func wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.State, *handlers.HealthHandler, error) {
	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	state, err := app.NewState(app.StateConfig{
		Backend:    backend,
		KeyPrefix:  cfg.Storage.KeyPrefix,
		Registerer: prometheus.DefaultRegisterer,
	})
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("creating application state: %w", err), backend.Close())
	}

	registry := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Client.Timeout))
	if err := registry.Register(backend); err != nil {
		return nil, nil, errors.Join(fmt.Errorf("registering storage health check: %w", err), state.Close())
	}

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	return state, handlers.NewHealthHandler(registry, buildInfo, prometheus.DefaultGatherer), nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// serve runs the server until ctx is cancelled or the listener fails, then
// drains in-flight requests within the configured shutdown timeout.
func serve(ctx context.Context, logger *slog.Logger, server *http.Server, sc config.ServerConfig) error {
	serverErr := server.Start()

	select {
	case err, ok := <-serverErr:
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sc.ShutdownTimeout)
	defer cancel()

	logger.Info("draining in-flight requests", slog.Duration("timeout", sc.ShutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
