package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/artistly/internal/platform/config"
)

// State is the circuit breaker position.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen rejects requests until the cool-down elapses.
	StateOpen

	// StateHalfOpen admits a limited number of probe requests.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Transition describes one state change.
type Transition struct {
	From State
	To   State
	At   time.Time
}

// CircuitBreaker guards a downstream key-value service.
//
//   - closed -> open after MaxFailures consecutive failures
//   - open -> half-open once Timeout has passed since opening
//   - half-open -> closed after HalfOpenLimit successful probes
//   - half-open -> open on any probe failure
type CircuitBreaker struct {
	cfg config.CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	probes   int // probes in flight while half-open
	passed   int // successful probes while half-open
	openedAt time.Time
	onChange []func(Transition)
}

// NewCircuitBreaker returns a closed breaker. A nil now uses time.Now.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig, now func() time.Time) *CircuitBreaker {
	if now == nil {
		now = time.Now
	}

	return &CircuitBreaker{cfg: cfg, now: now}
}

// OnStateChange registers fn to run after every transition. Callbacks run
// synchronously, outside the breaker's lock.
func (cb *CircuitBreaker) OnStateChange(fn func(Transition)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onChange = append(cb.onChange, fn)
}

// Allow reports whether a request may proceed. It returns ErrCircuitOpen
// while open or when every half-open probe slot is taken.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()

	var t *Transition

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.cfg.Timeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}

		t = cb.moveLocked(StateHalfOpen)
		cb.probes = 1

	case StateHalfOpen:
		if cb.probes >= max(cb.cfg.HalfOpenLimit, 1) {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}

		cb.probes++
	}

	cb.mu.Unlock()
	cb.notify(t)

	return nil
}

// RecordSuccess records a request that reached the service and succeeded.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var t *Transition

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.probes--
		cb.passed++

		if cb.passed >= max(cb.cfg.HalfOpenLimit, 1) {
			t = cb.moveLocked(StateClosed)
		}
	}

	cb.mu.Unlock()
	cb.notify(t)
}

// RecordFailure records a request that failed after retries.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var t *Transition

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= max(cb.cfg.MaxFailures, 1) {
			t = cb.moveLocked(StateOpen)
		}
	case StateHalfOpen:
		t = cb.moveLocked(StateOpen)
	}

	cb.mu.Unlock()
	cb.notify(t)
}

// State returns the current position.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// moveLocked switches state and resets the counters. cb.mu must be held.
func (cb *CircuitBreaker) moveLocked(to State) *Transition {
	t := &Transition{From: cb.state, To: to, At: cb.now()}

	cb.state = to
	cb.failures = 0
	cb.probes = 0
	cb.passed = 0

	if to == StateOpen {
		cb.openedAt = t.At
	}

	return t
}

func (cb *CircuitBreaker) notify(t *Transition) {
	if t == nil {
		return
	}

	cb.mu.Lock()
	callbacks := cb.onChange
	cb.mu.Unlock()

	for _, fn := range callbacks {
		fn(*t)
	}
}
