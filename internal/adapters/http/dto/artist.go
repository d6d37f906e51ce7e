package dto

import (
	"time"

	"github.com/jsamuelsen/artistly/internal/app"
	"github.com/jsamuelsen/artistly/internal/domain"
)

// ArtistResponse is the wire form of an artist.
type ArtistResponse struct {
	Name        string     `json:"name"`
	Bio         string     `json:"bio"`
	Categories  []string   `json:"categories"`
	Languages   []string   `json:"languages"`
	FeeRange    string     `json:"feeRange"`
	Location    string     `json:"location"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// NewArtistResponse converts a domain artist.
func NewArtistResponse(a domain.Artist) ArtistResponse {
	resp := ArtistResponse{
		Name:       a.Name,
		Bio:        a.Bio,
		Categories: nonNil(a.Categories),
		Languages:  nonNil(a.Languages),
		FeeRange:   a.FeeRange,
		Location:   a.Location,
	}

	if !a.SubmittedAt.IsZero() {
		at := a.SubmittedAt
		resp.SubmittedAt = &at
	}

	return resp
}

// ArtistQuery holds the browse filters. Empty fields match everything.
type ArtistQuery struct {
	Category string `form:"category" json:"category" validate:"omitempty,max=64"`
	Location string `form:"location" json:"location" validate:"omitempty,max=128"`
	FeeRange string `form:"feeRange" json:"feeRange" validate:"omitempty,max=64"`
}

// Filter converts the query to a domain filter.
func (q ArtistQuery) Filter() domain.ArtistFilter {
	return domain.ArtistFilter{
		Category: q.Category,
		Location: q.Location,
		FeeRange: q.FeeRange,
	}
}

// ListedArtistResponse is an artist in a listing. Index is the value to use
// in POST /api/v1/artists/:index/quotes.
type ListedArtistResponse struct {
	Index int `json:"index"`
	ArtistResponse
}

// ListArtistsResponse is returned by GET /api/v1/artists.
type ListArtistsResponse struct {
	Artists   []ListedArtistResponse `json:"artists"`
	Locations []string               `json:"locations"`
}

// NewListArtistsResponse converts a listing.
func NewListArtistsResponse(l app.Listing) ListArtistsResponse {
	artists := make([]ListedArtistResponse, 0, len(l.Artists))
	for _, a := range l.Artists {
		artists = append(artists, ListedArtistResponse{Index: a.Index, ArtistResponse: NewArtistResponse(a.Artist)})
	}

	return ListArtistsResponse{Artists: artists, Locations: nonNil(l.Locations)}
}

// OnboardArtistRequest is the body of POST /api/v1/artists. Field rules are
// enforced by the domain so the messages match the onboarding form.
type OnboardArtistRequest struct {
	Name           string   `json:"name"`
	Bio            string   `json:"bio"`
	Categories     []string `json:"categories"`
	Languages      []string `json:"languages"`
	FeeRange       string   `json:"feeRange"`
	Location       string   `json:"location"`
	CustomLocation string   `json:"customLocation"`
}

// Submission converts the request to a domain submission.
func (r *OnboardArtistRequest) Submission() domain.ArtistSubmission {
	return domain.ArtistSubmission{
		Name:           r.Name,
		Bio:            r.Bio,
		Categories:     r.Categories,
		Languages:      r.Languages,
		FeeRange:       r.FeeRange,
		Location:       r.Location,
		CustomLocation: r.CustomLocation,
	}
}

// QuoteResponse is a recorded quote request.
type QuoteResponse struct {
	Artist      ArtistResponse `json:"artist"`
	RequestedAt time.Time      `json:"requestedAt"`
}

// NewQuoteResponse converts a domain quote request.
func NewQuoteResponse(q domain.QuoteRequest) QuoteResponse {
	return QuoteResponse{Artist: NewArtistResponse(q.Artist), RequestedAt: q.RequestedAt}
}

// SubmissionResponse is one dashboard row.
type SubmissionResponse struct {
	Kind      string         `json:"kind"`
	Artist    ArtistResponse `json:"artist"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
}

// DashboardResponse is returned by GET /api/v1/dashboard.
type DashboardResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
}

// NewDashboardResponse converts dashboard rows.
func NewDashboardResponse(subs []domain.Submission) DashboardResponse {
	out := make([]SubmissionResponse, 0, len(subs))
	for _, s := range subs {
		row := SubmissionResponse{Kind: string(s.Kind), Artist: NewArtistResponse(s.Artist)}
		if !s.At.IsZero() {
			at := s.At
			row.Timestamp = &at
		}

		out = append(out, row)
	}

	return DashboardResponse{Submissions: out}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}
