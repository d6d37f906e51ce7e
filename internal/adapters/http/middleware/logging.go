package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/artistly/internal/platform/logging"
)

// RequestLogger stores logger in the request context. The ID and telemetry
// middleware enrich it from there.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), logger))
		c.Next()
	}
}

// Logging writes a DEBUG line when a request starts and one on completion:
// INFO for success, WARN for 4xx and ERROR for 5xx. Paths under any of
// skipPrefixes are not logged; with none given, the /-/ probes are skipped.
func Logging(skipPrefixes ...string) gin.HandlerFunc {
	if len(skipPrefixes) == 0 {
		skipPrefixes = []string{"/-/"}
	}

	return func(c *gin.Context) {
		if skipped(c.Request.URL.Path, skipPrefixes) {
			c.Next()
			return
		}

		start := time.Now()
		ctx := c.Request.Context()
		logger := logging.FromContext(ctx).With(
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.RequestURI()),
		)

		logger.DebugContext(ctx, "request started",
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		status := c.Writer.Status()
		logger.Log(ctx, levelForStatus(status), "request completed",
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

func skipped(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
