package telemetry

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/artistly/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/artistly/internal/platform/telemetry"

	// HeaderTraceID echoes the active trace ID to the caller.
	HeaderTraceID = "X-Trace-ID"

	// unmatchedRoute labels requests no route matched, keeping raw paths out
	// of metric attributes.
	unmatchedRoute = "unmatched"
)

// serverInstruments are the HTTP server measurements.
type serverInstruments struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newServerInstruments(meter metric.Meter) (*serverInstruments, error) {
	duration, err1 := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	total, err2 := meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	inFlight, err3 := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)

	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, err
	}

	return &serverInstruments{duration: duration, total: total, inFlight: inFlight}, nil
}

// Middleware returns the tracing and metrics handlers in the order they must
// run: otelgin starts the span, then the second handler exposes the trace ID
// and records request metrics.
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName),
		measure(),
	}
}

func measure() gin.HandlerFunc {
	// Instrument errors go to the global OTel error handler; requests still
	// get trace IDs.
	inst, err := newServerInstruments(otel.Meter(instrumentationName))
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(HeaderTraceID, traceID)
			ctx = logging.WithTraceID(ctx, traceID)
			c.Request = c.Request.WithContext(ctx)
		}

		if inst == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		base := []attribute.KeyValue{
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
		}

		inst.inFlight.Add(ctx, 1, metric.WithAttributes(base...))
		defer inst.inFlight.Add(ctx, -1, metric.WithAttributes(base...))

		c.Next()

		done := metric.WithAttributes(append(base, attribute.Int("http.status_code", c.Writer.Status()))...)
		inst.duration.Record(ctx, time.Since(start).Seconds(), done)
		inst.total.Add(ctx, 1, done)
	}
}
