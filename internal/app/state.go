package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/artistly/internal/ports"
)

// StateConfig configures NewState.
type StateConfig struct {
	// Backend is the opened storage backend. State takes ownership of it.
	Backend ports.StorageBackend

	// KeyPrefix namespaces the storage keys.
	KeyPrefix string

	// Registerer receives the business metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer

	// Clock defaults to time.Now.
	Clock Clock
}

// State owns the storage backend and every store and service built on it.
// It is created once at process start and closed at teardown.
type State struct {
	Backend ports.StorageBackend
	Keys    Keys
	Metrics *Metrics

	Artists *ArtistStore
	Quotes  *QuoteStore
	Theme   *ThemeStore

	Listing    *ListingService
	Onboarding *OnboardingService
	Dashboard  *DashboardService
}

// NewState wires the stores and services onto cfg.Backend.
func NewState(cfg StateConfig) (*State, error) {
	if cfg.Backend == nil {
		return nil, errors.New("storage backend is required")
	}

	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	keys := NewKeys(cfg.KeyPrefix)
	metrics := NewMetrics(cfg.Registerer)

	artists := NewArtistStore(cfg.Backend, keys.Artists, metrics)
	quotes := NewQuoteStore(cfg.Backend, keys.Quotes, metrics)

	return &State{
		Backend:    cfg.Backend,
		Keys:       keys,
		Metrics:    metrics,
		Artists:    artists,
		Quotes:     quotes,
		Theme:      NewThemeStore(cfg.Backend, keys.Theme, metrics),
		Listing:    NewListingService(artists, quotes, metrics, now),
		Onboarding: NewOnboardingService(artists, NewExecutor(metrics), metrics, now),
		Dashboard:  NewDashboardService(artists, quotes),
	}, nil
}

// Close releases the storage backend.
func (s *State) Close() error {
	if err := s.Backend.Close(); err != nil {
		return fmt.Errorf("closing storage: %w", err)
	}

	return nil
}
