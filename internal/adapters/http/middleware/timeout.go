package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/artistly/internal/adapters/http/dto"
)

// Timeout puts a deadline on the request context. Storage adapters honour
// it. Handlers usually report the expiry themselves through dto.HandleError;
// if a handler returns without writing after the deadline passed, a 504
// envelope is written here.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !c.Writer.Written() && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			dto.AbortWithErrorCode(c, dto.ErrorCodeTimeout, "request timeout exceeded")
		}
	}
}
