package clients

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen/artistly/internal/platform/config"
)

// retryPolicy decides whether an attempt is repeated and how long to wait.
type retryPolicy struct {
	cfg config.RetryConfig

	// jitter returns a value in [0,1). Replaced in tests.
	jitter func() float64
	now    func() time.Time
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)

	return retryPolicy{
		cfg:    cfg,
		jitter: rand.Float64, //nolint:gosec // jitter does not need crypto randomness
		now:    time.Now,
	}
}

// backoff returns the wait before retry number attempt (1 for the first
// retry): InitialInterval * Multiplier^(attempt-1), capped at MaxInterval,
// then spread by ±JitterFactor.
func (p retryPolicy) backoff(attempt int) time.Duration {
	wait := float64(p.cfg.InitialInterval) * math.Pow(p.cfg.Multiplier, float64(attempt-1))
	wait = min(wait, float64(p.cfg.MaxInterval))
	wait += wait * p.cfg.JitterFactor * (p.jitter()*2 - 1)

	return time.Duration(wait)
}

// delay prefers a Retry-After hint from the previous response over the
// computed backoff. Hints are capped at MaxInterval.
func (p retryPolicy) delay(attempt int, header http.Header) time.Duration {
	if hint, ok := p.retryAfter(header); ok {
		return min(hint, p.cfg.MaxInterval)
	}

	return p.backoff(attempt)
}

func (p retryPolicy) retryAfter(header http.Header) (time.Duration, bool) {
	v := header.Get("Retry-After")
	if v == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}

	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(p.now()), 0), true
	}

	return 0, false
}

// retryableStatus reports responses worth repeating: any 5xx and 429.
func retryableStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}

// isRetryableError reports transport failures worth repeating. Caller
// cancellation and deadlines are final.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}

// rewindBody restores the request body consumed by the previous attempt.
func rewindBody(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}

	if req.GetBody == nil {
		return ErrBodyNotRewindable
	}

	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewinding request body: %w", err)
	}

	req.Body = body

	return nil
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
