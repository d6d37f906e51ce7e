//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/jsamuelsen/artistly/internal/adapters/http"
	"github.com/jsamuelsen/artistly/internal/adapters/http/handlers"
	"github.com/jsamuelsen/artistly/internal/adapters/storage/memory"
	"github.com/jsamuelsen/artistly/internal/app"
	"github.com/jsamuelsen/artistly/internal/platform/config"
	"github.com/jsamuelsen/artistly/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// service is an in-process artistly instance.
type service struct {
	server *httptest.Server
	state  *app.State
}

func (s *service) Close() {
	s.server.Close()
	_ = s.state.Close()
}

// startService serves the full router over backend. A nil backend uses a
// fresh in-memory store.
func startService(backend ports.StorageBackend, auth config.AuthConfig) (*service, error) {
	if backend == nil {
		backend = memory.New(nil)
	}

	reg := prometheus.NewRegistry()

	state, err := app.NewState(app.StateConfig{
		Backend:    backend,
		KeyPrefix:  config.DefaultStorageKeyPrefix,
		Registerer: reg,
	})
	if err != nil {
		return nil, err
	}

	registry := ports.NewHealthRegistry()
	if err := registry.Register(backend); err != nil {
		return nil, err
	}

	cfg := &config.Config{
		App:  config.AppConfig{Name: "artistly", Version: "integration", Environment: "test"},
		Auth: auth,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	health := handlers.NewHealthHandler(registry, handlers.NewBuildInfo("integration", "none", "now"), reg)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.NewDefaultRouterConfig(logger, cfg, health, state))

	return &service{server: httptest.NewServer(engine), state: state}, nil
}

// kvService implements the remote key-value wire contract over a memory store.
func kvService(store *memory.Store) http.Handler {
	engine := gin.New()

	engine.GET("/kv/:key", func(c *gin.Context) {
		v, ok, _ := store.Get(c.Request.Context(), c.Param("key"))
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}

		c.String(http.StatusOK, v)
	})

	engine.PUT("/kv/:key", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}

		_ = store.Set(c.Request.Context(), c.Param("key"), string(body))
		c.Status(http.StatusNoContent)
	})

	engine.DELETE("/kv/:key", func(c *gin.Context) {
		key := c.Param("key")
		if _, ok, _ := store.Get(c.Request.Context(), key); !ok {
			c.Status(http.StatusNotFound)
			return
		}

		_ = store.Clear(c.Request.Context(), key)
		c.Status(http.StatusNoContent)
	})

	return engine
}

func jsonRequest(method, url, body string) (*http.Request, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
