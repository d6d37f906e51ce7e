package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jsamuelsen/artistly/internal/domain"
	"github.com/jsamuelsen/artistly/internal/platform/logging"
)

// Clock returns the current time. Tests replace it to get stable timestamps.
type Clock func() time.Time

// Listing is the result of browsing artists.
type Listing struct {
	// Artists are the merged artists matching the filter, in list order,
	// each with its merged-list index for RequestQuote.
	Artists []domain.IndexedArtist

	// Locations are the distinct locations of all merged artists, sorted.
	Locations []string
}

// ListingService serves the browse page and records quote requests.
type ListingService struct {
	artists *ArtistStore
	quotes  *QuoteStore
	metrics *Metrics
	now     Clock
}

// NewListingService creates a listing service.
func NewListingService(artists *ArtistStore, quotes *QuoteStore, metrics *Metrics, now Clock) *ListingService {
	return &ListingService{artists: artists, quotes: quotes, metrics: metrics, now: now}
}

// List loads the merged artist list once and filters it.
func (s *ListingService) List(ctx context.Context, filter domain.ArtistFilter) Listing {
	all := s.artists.Load(ctx)

	return Listing{
		Artists:   domain.FilterIndexed(all, filter),
		Locations: domain.UniqueLocations(all),
	}
}

// RequestQuote snapshots the artist at index in the merged list and appends
// the snapshot to the quote store.
func (s *ListingService) RequestQuote(ctx context.Context, index int) (domain.QuoteRequest, error) {
	all := s.artists.Load(ctx)
	if index < 0 || index >= len(all) {
		return domain.QuoteRequest{}, domain.NewNotFoundError("artist", strconv.Itoa(index))
	}

	q := domain.NewQuoteRequest(all[index], s.now())
	if err := s.quotes.Append(ctx, q); err != nil {
		return domain.QuoteRequest{}, fmt.Errorf("recording quote request: %w", err)
	}

	s.metrics.quoteRecorded()
	logging.FromContext(ctx).InfoContext(ctx, "quote requested",
		slog.Int("index", index),
		slog.String("artist", q.Artist.Name),
	)

	return q, nil
}

// OnboardingService accepts artist submissions.
type OnboardingService struct {
	artists *ArtistStore
	exec    *Executor
	metrics *Metrics
	now     Clock
}

// NewOnboardingService creates an onboarding service.
func NewOnboardingService(artists *ArtistStore, exec *Executor, metrics *Metrics, now Clock) *OnboardingService {
	return &OnboardingService{artists: artists, exec: exec, metrics: metrics, now: now}
}

var errEmptyCategories = errors.New("artist has no categories")

// Submit validates the submission and appends the resulting artist to the
// submitted list. Validation failures carry domain.FieldErrors.
func (s *OnboardingService) Submit(ctx context.Context, sub domain.ArtistSubmission) (domain.Artist, error) {
	op := Operation[domain.ArtistSubmission, domain.Artist, domain.Artist, domain.Artist]{
		Name: "onboard_artist",
		Validate: func(_ context.Context, in domain.ArtistSubmission) error {
			return in.Validate()
		},
		Perform: func(_ context.Context, in domain.ArtistSubmission) (domain.Artist, error) {
			return in.ToArtist(s.now()), nil
		},
		Verify: func(_ context.Context, _ domain.ArtistSubmission, a domain.Artist) (domain.Artist, error) {
			if len(a.Categories) == 0 {
				return domain.Artist{}, errEmptyCategories
			}

			return a, nil
		},
		Archive: func(ctx context.Context, _ domain.ArtistSubmission, a domain.Artist) error {
			return s.artists.Append(ctx, a)
		},
		Respond: func(_ context.Context, _ domain.ArtistSubmission, a domain.Artist) (domain.Artist, error) {
			s.metrics.submissionAccepted()

			return a, nil
		},
	}

	return Execute(ctx, s.exec, op, sub)
}

// DashboardService lists everything visitors and artists have submitted.
type DashboardService struct {
	artists *ArtistStore
	quotes  *QuoteStore
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(artists *ArtistStore, quotes *QuoteStore) *DashboardService {
	return &DashboardService{artists: artists, quotes: quotes}
}

// Submissions returns onboarded artists followed by quote requests.
func (s *DashboardService) Submissions(ctx context.Context) ([]domain.Submission, error) {
	artists, quotes, err := Parallel2(ctx,
		func(ctx context.Context) ([]domain.Artist, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			return s.artists.Submitted(ctx), nil
		},
		func(ctx context.Context) ([]domain.QuoteRequest, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			return s.quotes.List(ctx), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("loading dashboard: %w", err)
	}

	out := make([]domain.Submission, 0, len(artists)+len(quotes))
	for _, a := range artists {
		out = append(out, domain.Submission{Kind: domain.SubmissionOnboarded, Artist: a, At: a.SubmittedAt})
	}

	for _, q := range quotes {
		out = append(out, domain.Submission{Kind: domain.SubmissionQuote, Artist: q.Artist, At: q.RequestedAt})
	}

	return out, nil
}
