package app

import (
	"time"

	"github.com/jsamuelsen/artistly/internal/domain"
)

// Keys are the storage keys of the three persisted values.
type Keys struct {
	Artists string
	Quotes  string
	Theme   string
}

// NewKeys namespaces the keys with prefix, e.g. "artistly_artists".
func NewKeys(prefix string) Keys {
	return Keys{
		Artists: prefix + "artists",
		Quotes:  prefix + "quotes",
		Theme:   prefix + "theme",
	}
}

// record is the persisted JSON shape shared by artists and quote requests.
// For an artist Timestamp is the submission time; for a quote request it is
// the request time.
type record struct {
	Name       string     `json:"name"`
	Bio        string     `json:"bio"`
	Categories []string   `json:"categories"`
	Languages  []string   `json:"languages"`
	FeeRange   string     `json:"feeRange"`
	Location   string     `json:"location"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

func newRecord(a domain.Artist, ts time.Time) record {
	r := record{
		Name:       a.Name,
		Bio:        a.Bio,
		Categories: a.Categories,
		Languages:  a.Languages,
		FeeRange:   a.FeeRange,
		Location:   a.Location,
	}

	if !ts.IsZero() {
		t := ts.UTC()
		r.Timestamp = &t
	}

	return r
}

func (r record) artist() domain.Artist {
	return domain.Artist{
		Name:       r.Name,
		Bio:        r.Bio,
		Categories: r.Categories,
		Languages:  r.Languages,
		FeeRange:   r.FeeRange,
		Location:   r.Location,
	}
}

func (r record) timestamp() time.Time {
	if r.Timestamp == nil {
		return time.Time{}
	}

	return *r.Timestamp
}

func artistToRecord(a domain.Artist) record {
	return newRecord(a, a.SubmittedAt)
}

func recordToArtist(r record) domain.Artist {
	a := r.artist()
	a.SubmittedAt = r.timestamp()

	return a
}

func quoteToRecord(q domain.QuoteRequest) record {
	return newRecord(q.Artist, q.RequestedAt)
}

func recordToQuote(r record) domain.QuoteRequest {
	return domain.QuoteRequest{Artist: r.artist(), RequestedAt: r.timestamp()}
}
