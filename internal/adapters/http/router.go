package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/artistly/internal/adapters/http/dto"
	"github.com/jsamuelsen/artistly/internal/adapters/http/handlers"
	"github.com/jsamuelsen/artistly/internal/adapters/http/middleware"
	"github.com/jsamuelsen/artistly/internal/app"
	"github.com/jsamuelsen/artistly/internal/platform/config"
	"github.com/jsamuelsen/artistly/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is injected into every request context.
	Logger *slog.Logger

	// AuthConfig controls gateway-header auth for the dashboard.
	AuthConfig *config.AuthConfig

	// AppConfig names the service for tracing.
	AppConfig *config.AppConfig

	// HealthHandler handles the /-/ endpoints. Optional.
	HealthHandler *handlers.HealthHandler

	// State provides the services behind /api/v1.
	State *app.State

	// Timeout is the per-request deadline for /api/v1. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Request logger - inject the base logger
//  2. Recovery - catch panics
//  3. Request ID and Correlation ID
//  4. OpenTelemetry - span, trace ID header and HTTP metrics
//  5. Logging - request logging (skips health endpoints)
//
// Route groups:
//   - /-/ (internal): probes, build info and Prometheus metrics
//   - /api/v1/: catalog, artists, quotes, theme and the dashboard
//
// Unknown routes and methods get the JSON error envelope.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeNotFound, "no route for "+c.Request.URL.Path)
	})
	engine.NoMethod(func(c *gin.Context) {
		dto.RespondWithErrorCode(c, dto.ErrorCodeMethodNotAllowed,
			c.Request.Method+" is not allowed on "+c.Request.URL.Path)
	})

	engine.Use(
		middleware.RequestLogger(cfg.Logger),
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(middleware.Logging())

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.State != nil {
		setupAPIRoutes(apiV1, cfg)
	}
}

func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	state := cfg.State

	rg.GET("/catalog", handlers.Catalog)
	handlers.NewArtistHandler(state.Listing, state.Onboarding).RegisterArtistRoutes(rg)
	handlers.NewThemeHandler(state.Theme).RegisterThemeRoutes(rg)

	dashboard := rg.Group("/dashboard")
	if cfg.AuthConfig != nil && cfg.AuthConfig.Enabled {
		dashboard.Use(
			middleware.RequireAuth(cfg.AuthConfig),
			middleware.RequireRole(cfg.AuthConfig, cfg.AuthConfig.ManagerRole),
		)
	}

	dashboard.GET("", handlers.NewDashboardHandler(state.Dashboard).Submissions)
}

// NewDefaultRouterConfig creates a RouterConfig with sensible defaults.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	state *app.State,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AuthConfig:    &cfg.Auth,
		AppConfig:     &cfg.App,
		HealthHandler: healthHandler,
		State:         state,
		Timeout:       DefaultRequestTimeout,
	}
}
