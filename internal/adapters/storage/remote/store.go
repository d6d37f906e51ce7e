// Package remote provides a key-value backend served by an HTTP key-value service.
//
// Wire contract:
//
//	GET    {base}/kv/{key}  200 with the raw value, 404 when absent
//	PUT    {base}/kv/{key}  body is the raw value, any 2xx on success
//	DELETE {base}/kv/{key}  any 2xx or 404
package remote

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jsamuelsen/artistly/internal/adapters/clients"
	"github.com/jsamuelsen/artistly/internal/domain"
	"github.com/jsamuelsen/artistly/internal/platform/logging"
)

const (
	checkerName = "storage-remote"

	// probeKey is read by health checks; its value is ignored.
	probeKey = "__health"

	// maxValueSize caps a single stored value.
	maxValueSize = 4 << 20

	maxErrorBodySize = 4 << 10

	contentType = "text/plain; charset=utf-8"
)

// Doer is the subset of clients.Client used by the store.
type Doer interface {
	Get(ctx context.Context, path string) (*http.Response, error)
	Put(ctx context.Context, path, contentType string, body []byte) (*http.Response, error)
	Delete(ctx context.Context, path string) (*http.Response, error)
	CircuitState() clients.State
}

// Store reads and writes values through the remote service.
type Store struct {
	client  Doer
	service string
}

// New creates a remote store. service names the downstream in errors.
func New(client Doer, service string) *Store {
	return &Store{client: client, service: service}
}

func keyPath(key string) string {
	return "/kv/" + url.PathEscape(key)
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	resp, err := s.client.Get(ctx, keyPath(key))
	if err != nil {
		return "", false, s.unavailable("get", key, err)
	}
	defer closeBody(ctx, resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", false, nil
	case resp.StatusCode != http.StatusOK:
		return "", false, s.unavailable("get", key, statusError(resp))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxValueSize))
	if err != nil {
		return "", false, s.unavailable("get", key, err)
	}

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "remote value read",
		slog.String("key", key),
		slog.Int("bytes", len(body)),
	)

	return string(body), true, nil
}

// Set overwrites the value stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	resp, err := s.client.Put(ctx, keyPath(key), contentType, []byte(value))
	if err != nil {
		return s.unavailable("set", key, err)
	}
	defer closeBody(ctx, resp)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return s.unavailable("set", key, statusError(resp))
	}

	return nil
}

// Clear removes key.
func (s *Store) Clear(ctx context.Context, key string) error {
	resp, err := s.client.Delete(ctx, keyPath(key))
	if err != nil {
		return s.unavailable("clear", key, err)
	}
	defer closeBody(ctx, resp)

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return s.unavailable("clear", key, statusError(resp))
	}

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return checkerName }

// Check implements ports.HealthChecker. An open circuit is reported without
// a network call.
func (s *Store) Check(ctx context.Context) error {
	if s.client.CircuitState() == clients.StateOpen {
		return domain.NewUnavailableError(s.service, "circuit breaker open")
	}

	_, _, err := s.Get(ctx, probeKey)

	return err
}

// Close implements ports.StorageBackend. The HTTP client holds no resources
// that need releasing.
func (s *Store) Close() error { return nil }

func (s *Store) unavailable(op, key string, err error) error {
	reason := err.Error()
	if errors.Is(err, clients.ErrCircuitOpen) {
		reason = "circuit breaker open"
	}

	return fmt.Errorf("%s %q: %w", op, key, domain.NewUnavailableError(s.service, reason))
}

// errorBody is the error envelope the key-value service may return. Both the
// nested and flat forms are accepted.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// statusError describes a non-success response, including the service's own
// message when the body carries one.
func statusError(resp *http.Response) error {
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBodySize)).Decode(&body); err == nil {
		if msg := cmp.Or(body.Error.Message, body.Message); msg != "" {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
		}
	}

	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}

func closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		logging.FromContext(ctx).Debug("failed to close response body", slog.Any("error", err))
	}
}
