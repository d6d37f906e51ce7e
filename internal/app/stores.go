package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/artistly/internal/domain"
	"github.com/jsamuelsen/artistly/internal/platform/logging"
	"github.com/jsamuelsen/artistly/internal/ports"
)

// Store names used in logs and the fallback metric.
const (
	storeArtists = "artists"
	storeQuotes  = "quotes"
	storeTheme   = "theme"
)

// readList decodes the JSON list stored under key for display. An absent key
// is an empty list. A read error or unparsable value is logged, counted and
// also treated as an empty list so callers always get usable data.
func readList(ctx context.Context, kv ports.KeyValueStore, key, store string, metrics *Metrics) []record {
	records, err := readListForUpdate(ctx, kv, key, store, metrics)
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "storage read failed, using default list",
			slog.String("store", store),
			slog.String("key", key),
			slog.Any("error", err),
		)
		metrics.storeFellBack(store)

		return nil
	}

	return records
}

// readListForUpdate is readList for read-modify-write paths. An unparsable
// value still starts a fresh list, but a failed read is returned as
// unavailable so the caller never overwrites data it could not see.
func readListForUpdate(ctx context.Context, kv ports.KeyValueStore, key, store string, metrics *Metrics) ([]record, error) {
	logger := logging.FromContext(ctx).With(slog.String("store", store), slog.String("key", key))

	raw, found, err := kv.Get(ctx, key)
	if err != nil {
		if !domain.IsUnavailable(err) {
			err = errors.Join(domain.NewUnavailableError(store+" store", "read failed"), err)
		}

		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	if !found {
		return nil, nil
	}

	logger.Log(ctx, logging.LevelTrace, "stored value read", slog.String("value", raw))

	var records []record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		logger.WarnContext(ctx, "stored value is not a valid list, using default list", slog.Any("error", err))
		metrics.storeFellBack(store)

		return nil, nil
	}

	return records, nil
}

func writeList(ctx context.Context, kv ports.KeyValueStore, key string, records []record) error {
	if records == nil {
		records = []record{}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if err := kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}

// ArtistStore persists onboarded artists and merges them after the seed list.
type ArtistStore struct {
	kv      ports.KeyValueStore
	key     string
	metrics *Metrics
}

// NewArtistStore creates an artist store writing under key.
func NewArtistStore(kv ports.KeyValueStore, key string, metrics *Metrics) *ArtistStore {
	return &ArtistStore{kv: kv, key: key, metrics: metrics}
}

// Load returns the seed artists followed by the submitted artists.
// It never fails; unreadable storage yields the seed list alone.
func (s *ArtistStore) Load(ctx context.Context) []domain.Artist {
	return append(domain.SeedArtists(), s.Submitted(ctx)...)
}

// Submitted returns only the artists stored through onboarding.
func (s *ArtistStore) Submitted(ctx context.Context) []domain.Artist {
	records := readList(ctx, s.kv, s.key, storeArtists, s.metrics)

	artists := make([]domain.Artist, 0, len(records))
	for _, r := range records {
		artists = append(artists, recordToArtist(r))
	}

	return artists
}

// Save overwrites the submitted list. Seed artists must not be passed in.
func (s *ArtistStore) Save(ctx context.Context, artists []domain.Artist) error {
	records := make([]record, 0, len(artists))
	for _, a := range artists {
		records = append(records, artistToRecord(a))
	}

	return writeList(ctx, s.kv, s.key, records)
}

// Append reads the submitted list, appends a and writes the full list back.
// A failed read aborts without writing.
func (s *ArtistStore) Append(ctx context.Context, a domain.Artist) error {
	records, err := readListForUpdate(ctx, s.kv, s.key, storeArtists, s.metrics)
	if err != nil {
		return err
	}

	return writeList(ctx, s.kv, s.key, append(records, artistToRecord(a)))
}

// QuoteStore persists quote requests as an append-only list.
type QuoteStore struct {
	kv      ports.KeyValueStore
	key     string
	metrics *Metrics
}

// NewQuoteStore creates a quote store writing under key.
func NewQuoteStore(kv ports.KeyValueStore, key string, metrics *Metrics) *QuoteStore {
	return &QuoteStore{kv: kv, key: key, metrics: metrics}
}

// List returns the stored quote requests in insertion order.
func (s *QuoteStore) List(ctx context.Context) []domain.QuoteRequest {
	records := readList(ctx, s.kv, s.key, storeQuotes, s.metrics)

	quotes := make([]domain.QuoteRequest, 0, len(records))
	for _, r := range records {
		quotes = append(quotes, recordToQuote(r))
	}

	return quotes
}

// Append reads the list, appends q and writes the full list back.
// Concurrent appends are last-write-wins. A failed read aborts without writing.
func (s *QuoteStore) Append(ctx context.Context, q domain.QuoteRequest) error {
	records, err := readListForUpdate(ctx, s.kv, s.key, storeQuotes, s.metrics)
	if err != nil {
		return err
	}

	return writeList(ctx, s.kv, s.key, append(records, quoteToRecord(q)))
}

// ThemeStore persists the light/dark preference.
type ThemeStore struct {
	kv      ports.KeyValueStore
	key     string
	metrics *Metrics
}

// NewThemeStore creates a theme store writing under key.
func NewThemeStore(kv ports.KeyValueStore, key string, metrics *Metrics) *ThemeStore {
	return &ThemeStore{kv: kv, key: key, metrics: metrics}
}

// Get returns the stored theme. Anything other than "dark" is light.
func (s *ThemeStore) Get(ctx context.Context) domain.Theme {
	raw, _, err := s.kv.Get(ctx, s.key)
	if err != nil {
		logging.FromContext(ctx).WarnContext(ctx, "storage read failed, using light theme",
			slog.String("store", storeTheme),
			slog.Any("error", err),
		)
		s.metrics.storeFellBack(storeTheme)
	}

	return domain.ParseTheme(raw)
}

// Set stores theme.
func (s *ThemeStore) Set(ctx context.Context, theme domain.Theme) error {
	if !theme.Valid() {
		return domain.NewValidationError("theme", "must be dark or light")
	}

	if err := s.kv.Set(ctx, s.key, string(theme)); err != nil {
		return fmt.Errorf("writing %s: %w", s.key, err)
	}

	return nil
}

// Toggle flips the stored theme and returns the new value.
func (s *ThemeStore) Toggle(ctx context.Context) (domain.Theme, error) {
	next := s.Get(ctx).Toggle()

	if err := s.Set(ctx, next); err != nil {
		return "", err
	}

	return next, nil
}
