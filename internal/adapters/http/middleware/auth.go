package middleware

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/artistly/internal/adapters/http/dto"
	"github.com/jsamuelsen/artistly/internal/platform/config"
	"github.com/jsamuelsen/artistly/internal/platform/logging"
)

// ContextKeyClaims is the gin context key holding *Claims.
const ContextKeyClaims = "claims"

// Claims are the caller identity forwarded by the gateway. The gateway
// validates the token; this service only reads the headers.
type Claims struct {
	Subject string
	Roles   []string
}

// HasRole reports whether role was granted. Matching is exact.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// identityHeaders names the gateway headers carrying the caller identity.
type identityHeaders struct {
	subject string
	roles   string
}

func headersFor(cfg *config.AuthConfig) identityHeaders {
	h := identityHeaders{subject: "X-User-ID", roles: "X-User-Roles"}
	if cfg == nil {
		return h
	}

	h.subject = cmp.Or(cfg.SubjectHeader, h.subject)
	h.roles = cmp.Or(cfg.RolesHeader, h.roles)

	return h
}

func (h identityHeaders) read(c *gin.Context) *Claims {
	claims := &Claims{Subject: c.GetHeader(h.subject)}

	for role := range strings.SplitSeq(c.GetHeader(h.roles), ",") {
		if role = strings.TrimSpace(role); role != "" {
			claims.Roles = append(claims.Roles, role)
		}
	}

	return claims
}

// ExtractClaims reads the caller identity from the headers named in cfg.
// A nil cfg uses X-User-ID and X-User-Roles.
func ExtractClaims(c *gin.Context, cfg *config.AuthConfig) *Claims {
	return headersFor(cfg).read(c)
}

// GetClaims returns the claims stored by RequireAuth or RequireRole, or nil.
func GetClaims(c *gin.Context) *Claims {
	v, _ := c.Get(ContextKeyClaims)
	claims, _ := v.(*Claims)

	return claims
}

// RequireAuth rejects requests without a subject with 401. The subject is
// added to the request logger.
func RequireAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	headers := headersFor(cfg)

	return func(c *gin.Context) {
		claims := claimsFor(c, headers)
		if claims.Subject == "" {
			dto.AbortWithErrorCode(c, dto.ErrorCodeUnauthorized, "authentication required")
			return
		}

		ctx := logging.With(c.Request.Context(), slog.String("subject", claims.Subject))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole rejects callers lacking role with 403.
func RequireRole(cfg *config.AuthConfig, role string) gin.HandlerFunc {
	headers := headersFor(cfg)

	return func(c *gin.Context) {
		if !claimsFor(c, headers).HasRole(role) {
			dto.AbortWithErrorCode(c, dto.ErrorCodeForbidden, "insufficient permissions: role "+role+" required")
			return
		}

		c.Next()
	}
}

// claimsFor reads the headers once per request and caches the result.
func claimsFor(c *gin.Context, headers identityHeaders) *Claims {
	if claims := GetClaims(c); claims != nil {
		return claims
	}

	claims := headers.read(c)
	c.Set(ContextKeyClaims, claims)

	return claims
}
