package domain

import (
	"slices"
	"time"
)

// Artist is a performing artist listed on the marketplace.
// Identity is positional: two artists with the same name are distinct records.
type Artist struct {
	// Name is the display name. Always present.
	Name string

	// Bio is a short free-text description.
	Bio string

	// Categories holds one or more values from Categories.
	Categories []string

	// Languages holds one or more values from Languages.
	Languages []string

	// FeeRange is one of the FeeRanges bucket labels.
	FeeRange string

	// Location is a city from Locations or a custom value.
	Location string

	// SubmittedAt is when the artist was onboarded. Zero for seed artists.
	SubmittedAt time.Time
}

// HasCategory reports whether the artist belongs to category.
func (a Artist) HasCategory(category string) bool {
	return slices.Contains(a.Categories, category)
}

// Clone returns a deep copy so callers can't alias the slices of stored records.
func (a Artist) Clone() Artist {
	a.Categories = slices.Clone(a.Categories)
	a.Languages = slices.Clone(a.Languages)

	return a
}

// QuoteRequest is a snapshot of an artist taken when a visitor asked for a quote.
// It has no link back to the artist list beyond the copied fields.
type QuoteRequest struct {
	Artist      Artist
	RequestedAt time.Time
}

// NewQuoteRequest snapshots artist at the given instant.
// The artist's own submission time is not part of the snapshot.
func NewQuoteRequest(artist Artist, at time.Time) QuoteRequest {
	snapshot := artist.Clone()
	snapshot.SubmittedAt = time.Time{}

	return QuoteRequest{Artist: snapshot, RequestedAt: at}
}

// SubmissionKind distinguishes the two record types shown on the dashboard.
type SubmissionKind string

const (
	// SubmissionOnboarded is an artist profile created through onboarding.
	SubmissionOnboarded SubmissionKind = "onboarded"

	// SubmissionQuote is a quote request.
	SubmissionQuote SubmissionKind = "quote"
)

// Submission is one row of the manager dashboard.
type Submission struct {
	Kind   SubmissionKind
	Artist Artist

	// At is the submission time for onboarded artists and the request time for quotes.
	At time.Time
}
