// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/artistly/internal/platform/logging"
)

const (
	// HeaderRequestID identifies one HTTP exchange.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID identifies a business transaction spanning services.
	HeaderCorrelationID = "X-Correlation-ID"

	// Gin context keys.
	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"

	// maxIDLength bounds caller-supplied IDs before they reach logs and the
	// remote store.
	maxIDLength = 128
)

type ctxKey struct{ name string }

// tracedID is one propagated identifier: read from a header or minted, echoed
// back, and stored in both the gin and request contexts.
type tracedID struct {
	header  string
	ginKey  string
	ctxKey  ctxKey
	logWith func(context.Context, string) context.Context
}

var (
	requestID = tracedID{
		header:  HeaderRequestID,
		ginKey:  ContextKeyRequestID,
		ctxKey:  ctxKey{"request_id"},
		logWith: logging.WithRequestID,
	}
	correlationID = tracedID{
		header:  HeaderCorrelationID,
		ginKey:  ContextKeyCorrelationID,
		ctxKey:  ctxKey{"correlation_id"},
		logWith: logging.WithCorrelationID,
	}
)

func (t tracedID) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(t.header)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		c.Set(t.ginKey, id)
		c.Header(t.header, id)

		ctx := t.logWith(t.store(c.Request.Context(), id), id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func (t tracedID) store(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, t.ctxKey, id)
}

func (t tracedID) load(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(t.ctxKey).(string)

	return id
}

func (t tracedID) fromGin(c *gin.Context) string {
	return c.GetString(t.ginKey)
}

// acceptableID rejects empty, oversized, or non-printable ASCII IDs.
func acceptableID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for i := range len(id) {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}

// RequestID keeps a well-formed inbound X-Request-ID or mints a UUID. The ID
// is echoed in the response, added to the request logger, and forwarded by
// the remote storage client.
func RequestID() gin.HandlerFunc { return requestID.handler() }

// CorrelationID works like RequestID for X-Correlation-ID.
func CorrelationID() gin.HandlerFunc { return correlationID.handler() }

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string { return requestID.fromGin(c) }

// GetCorrelationID returns the correlation ID set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string { return correlationID.fromGin(c) }

// RequestIDFromContext returns the request ID carried by ctx, or "".
func RequestIDFromContext(ctx context.Context) string { return requestID.load(ctx) }

// CorrelationIDFromContext returns the correlation ID carried by ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string { return correlationID.load(ctx) }

// ContextWithRequestID returns ctx carrying id as the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return requestID.store(ctx, id)
}

// ContextWithCorrelationID returns ctx carrying id as the correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return correlationID.store(ctx, id)
}
