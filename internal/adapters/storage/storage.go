// Package storage selects and opens the configured key-value backend.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/artistly/internal/adapters/clients"
	"github.com/jsamuelsen/artistly/internal/adapters/storage/memory"
	"github.com/jsamuelsen/artistly/internal/adapters/storage/remote"
	"github.com/jsamuelsen/artistly/internal/adapters/storage/sqlite"
	"github.com/jsamuelsen/artistly/internal/platform/config"
	"github.com/jsamuelsen/artistly/internal/platform/logging"
	"github.com/jsamuelsen/artistly/internal/ports"
)

// Open returns the backend named by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.StorageBackend, error) {
	sc := cfg.Storage
	logger = logger.With(slog.String(logging.KeyBackend, sc.Backend))
	logger.InfoContext(ctx, "opening storage backend")

	switch sc.Backend {
	case config.StorageBackendMemory:
		return memory.New(nil), nil

	case config.StorageBackendSQLite:
		store, err := sqlite.Open(ctx, sqlite.Config{
			Path:        sc.SQLite.Path,
			BusyTimeout: sc.SQLite.BusyTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}

		return store, nil

	case config.StorageBackendRemote:
		clientCfg := &clients.Config{
			BaseURL:     sc.Remote.BaseURL,
			ServiceName: sc.Remote.Name,
			Timeout:     cfg.Client.Timeout,
			Retry:       cfg.Client.Retry,
			Circuit:     cfg.Client.CircuitBreaker,
			Transport:   cfg.Client.Transport,
			Logger:      logger,
		}

		if token := sc.Remote.AuthToken; token != "" {
			clientCfg.AuthFunc = func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+token)
			}
		}

		client, err := clients.New(clientCfg)
		if err != nil {
			return nil, fmt.Errorf("creating remote storage client: %w", err)
		}

		return remote.New(client, sc.Remote.Name), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
}
