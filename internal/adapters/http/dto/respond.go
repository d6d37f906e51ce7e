package dto

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/artistly/internal/domain"
	"github.com/jsamuelsen/artistly/internal/platform/logging"
)

const (
	traceIDKey      = "trace_id"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// GetTraceID returns the ID included in error envelopes: the active
// OpenTelemetry trace, else a "trace_id" or "request_id" gin value, else the
// raw X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if c.Request != nil {
		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
			return sc.TraceID().String()
		}
	}

	for _, key := range []string{traceIDKey, requestIDKey} {
		if id := c.GetString(key); id != "" {
			return id
		}
	}

	if c.Request != nil {
		return c.Request.Header.Get(requestIDHeader)
	}

	return ""
}

// MapDomainError maps a domain error to an HTTP status and error envelope.
// An expired request deadline becomes a 504. Unknown errors become a 500
// with a generic message.
func MapDomainError(err error) (int, *ErrorResponse) {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case domain.IsValidation(err):
		return http.StatusBadRequest, NewErrorResponseWithDetails(
			ErrorCodeValidation,
			"request validation failed",
			validationDetails(err),
		)

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewErrorResponse(ErrorCodeTimeout, "request timeout exceeded")

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable,
			"storage is temporarily unavailable",
		)

	default:
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// validationDetails collects field messages from FieldErrors or a single
// ValidationError.
func validationDetails(err error) map[string]string {
	var fields domain.FieldErrors
	if errors.As(err, &fields) {
		return maps.Clone(map[string]string(fields))
	}

	var single *domain.ValidationError
	if errors.As(err, &single) && single.Field != "" {
		return map[string]string{single.Field: single.Message}
	}

	return nil
}

// HandleError writes the error envelope for err. Server-side failures are
// logged with the request logger; client errors are not.
func HandleError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	resp.WithTraceID(GetTraceID(c))

	if status >= http.StatusInternalServerError {
		ctx := c.Request.Context()
		logging.FromContext(ctx).ErrorContext(ctx, "request failed",
			slog.Int("status", status),
			slog.Any("error", err),
		)
	}

	c.JSON(status, resp)
}

// RespondWithErrorCode writes an error envelope for an adapter-level failure
// that did not come from the domain, such as a malformed path parameter.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	c.JSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

// RespondWithValidationErrors writes a 400 with field-level details.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	c.JSON(http.StatusBadRequest, NewErrorResponseWithDetails(
		ErrorCodeValidation,
		"request validation failed",
		fieldErrors,
	).WithTraceID(GetTraceID(c)))
}

// AbortWithErrorCode aborts the handler chain with an error envelope.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}
