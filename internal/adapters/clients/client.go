package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/artistly/internal/adapters/http/middleware"
	"github.com/jsamuelsen/artistly/internal/platform/config"
	"github.com/jsamuelsen/artistly/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/artistly/internal/adapters/clients"

	defaultTimeout = 30 * time.Second

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Config configures a Client for one downstream service.
type Config struct {
	// BaseURL prefixes every request path, e.g. "http://kv.internal:8081".
	BaseURL string

	// ServiceName identifies the downstream in logs, spans and metrics.
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// AuthFunc, when set, decorates every attempt including retries.
	AuthFunc func(*http.Request)

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Client is an HTTP client for a single downstream service. Every call goes
// through the circuit breaker, is retried with backoff on transient
// failures, and is traced and measured.
type Client struct {
	http        *http.Client
	baseURL     string
	serviceName string
	authFunc    func(*http.Request)
	retry       retryPolicy
	cb          *CircuitBreaker

	tracer          trace.Tracer
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
}

// New creates a Client from cfg.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	cb := NewCircuitBreaker(cfg.Circuit, nil)
	cb.OnStateChange(func(t Transition) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", t.From.String()),
			slog.String("to", t.To.String()),
		)
	})

	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requestTotal, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Total number of HTTP client requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg.Transport),
		},
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		serviceName:     cfg.ServiceName,
		authFunc:        cfg.AuthFunc,
		retry:           newRetryPolicy(cfg.Retry),
		cb:              cb,
		tracer:          otel.Tracer(instrumentationName),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
	}, nil
}

func newTransport(tc config.TransportConfig) *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        orDefault(tc.MaxIdleConns, defaultMaxIdleConns),
		MaxIdleConnsPerHost: orDefault(tc.MaxIdleConnsPerHost, defaultMaxIdleConnsPerHost),
		IdleConnTimeout:     orDefault(tc.IdleConnTimeout, defaultIdleConnTimeout),
	}
}

func orDefault[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}

	return def
}

// Get performs an HTTP GET request.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, path, "", nil)
}

// Put performs an HTTP PUT request. The body is buffered so retries can resend it.
func (c *Client) Put(ctx context.Context, path, contentType string, body []byte) (*http.Response, error) {
	return c.send(ctx, http.MethodPut, path, contentType, body)
}

// Delete performs an HTTP DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.send(ctx, http.MethodDelete, path, "", nil)
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body []byte) (*http.Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return c.Do(ctx, req)
}

// CircuitState returns the current state of the circuit breaker.
func (c *Client) CircuitState() State {
	return c.cb.State()
}

// Do sends req through the breaker and retry loop. Retryable statuses (5xx
// and 429) are consumed and reported as ErrMaxRetriesExceeded once attempts
// run out; any other response is returned to the caller, who must close it.
// Requests with a body are only retried when req.GetBody is set.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if err := c.cb.Allow(); err != nil {
		c.recordMetrics(ctx, req.Method, 0, start, "circuit_open")
		logger.WarnContext(ctx, "request blocked by circuit breaker")

		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.serviceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.serviceName),
		),
	)
	defer span.End()

	c.injectHeaders(ctx, req)

	resp, attempts, err := c.attempt(ctx, req, logger)
	span.SetAttributes(attribute.Int("http.resend_count", attempts-1))

	if err != nil {
		c.cb.RecordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if ctxErr := ctx.Err(); ctxErr != nil {
			c.recordMetrics(ctx, req.Method, 0, start, "context_canceled")
			return nil, ctxErr
		}

		c.recordMetrics(ctx, req.Method, 0, start, "error")
		logger.ErrorContext(ctx, "request failed",
			slog.Int("attempts", attempts),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)

		if errors.Is(err, ErrBodyNotRewindable) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}

	c.cb.RecordSuccess()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, "HTTP "+resp.Status)
	}

	c.recordMetrics(ctx, req.Method, resp.StatusCode, start, fmt.Sprintf("%dxx", resp.StatusCode/100))
	logger.DebugContext(ctx, "request completed",
		slog.Int("status", resp.StatusCode),
		slog.Int("attempts", attempts),
		slog.Duration("duration", time.Since(start)),
	)

	return resp, nil
}

// attempt runs the retry loop and returns the final response, the number of
// attempts made and the last error.
func (c *Client) attempt(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, int, error) {
	var (
		lastErr    error
		lastHeader http.Header
	)

	for n := 1; n <= c.retry.cfg.MaxAttempts; n++ {
		if n > 1 {
			wait := c.retry.delay(n-1, lastHeader)
			logger.DebugContext(ctx, "retrying request",
				slog.Int("attempt", n),
				slog.Duration("backoff", wait),
				slog.Any("previous_error", lastErr),
			)

			if err := sleepCtx(ctx, wait); err != nil {
				return nil, n - 1, err
			}

			if err := rewindBody(req); err != nil {
				return nil, n - 1, err
			}

			if c.authFunc != nil {
				c.authFunc(req)
			}
		}

		resp, err := c.http.Do(req.WithContext(ctx))
		if err != nil {
			if !isRetryableError(err) {
				return nil, n, err
			}

			lastErr, lastHeader = err, nil

			continue
		}

		if !retryableStatus(resp.StatusCode) {
			return resp, n, nil
		}

		lastErr, lastHeader = &StatusError{StatusCode: resp.StatusCode}, resp.Header
		if cerr := resp.Body.Close(); cerr != nil {
			logger.DebugContext(ctx, "failed to close response body", slog.Any("error", cerr))
		}
	}

	return nil, c.retry.cfg.MaxAttempts, lastErr
}

// injectHeaders propagates request and correlation IDs, the trace context
// and authentication onto the outgoing request.
func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if requestID := middleware.RequestIDFromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}

	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	if c.authFunc != nil {
		c.authFunc(req)
	}
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return c.baseURL + path
}

func (c *Client) recordMetrics(ctx context.Context, method string, statusCode int, start time.Time, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.serviceName),
		attribute.String("result", result),
	}

	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	opt := metric.WithAttributes(attrs...)
	c.requestDuration.Record(ctx, time.Since(start).Seconds(), opt)
	c.requestTotal.Add(ctx, 1, opt)
}
