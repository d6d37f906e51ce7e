package domain

import (
	"slices"
	"strings"
)

// ArtistFilter selects artists from a listing. An empty field is inactive and
// matches every artist.
type ArtistFilter struct {
	Category string
	Location string
	FeeRange string
}

// Matches reports whether a satisfies every active criterion.
// Category is a membership test, location compares case-insensitively and
// fee range must be equal to the bucket label.
func (f ArtistFilter) Matches(a Artist) bool {
	if f.Category != "" && !a.HasCategory(f.Category) {
		return false
	}

	if f.Location != "" && !strings.EqualFold(a.Location, f.Location) {
		return false
	}

	if f.FeeRange != "" && a.FeeRange != f.FeeRange {
		return false
	}

	return true
}

// FilterArtists returns the artists that match f, preserving input order.
// The input slice is not modified.
func FilterArtists(artists []Artist, f ArtistFilter) []Artist {
	out := make([]Artist, 0, len(artists))
	for _, a := range artists {
		if f.Matches(a) {
			out = append(out, a)
		}
	}

	return out
}

// IndexedArtist is an artist together with its position in the merged list.
// The position is what quote requests address.
type IndexedArtist struct {
	Artist
	Index int
}

// FilterIndexed is FilterArtists that keeps each match's input position.
func FilterIndexed(artists []Artist, f ArtistFilter) []IndexedArtist {
	out := make([]IndexedArtist, 0, len(artists))
	for i, a := range artists {
		if f.Matches(a) {
			out = append(out, IndexedArtist{Artist: a, Index: i})
		}
	}

	return out
}

// UniqueLocations returns the distinct locations of artists, sorted.
func UniqueLocations(artists []Artist) []string {
	locs := make([]string, 0, len(artists))
	for _, a := range artists {
		locs = append(locs, a.Location)
	}

	slices.Sort(locs)

	return slices.Compact(locs)
}
