package domain

import (
	"strings"
	"time"
)

// ArtistSubmission is the onboarding form as entered by an artist.
type ArtistSubmission struct {
	Name           string
	Bio            string
	Categories     []string
	Languages      []string
	FeeRange       string
	Location       string
	CustomLocation string
}

// Validate checks the submission and returns FieldErrors keyed by wire field
// name, or nil. A submission with an empty category set never passes.
func (s ArtistSubmission) Validate() error {
	errs := FieldErrors{}

	if strings.TrimSpace(s.Name) == "" {
		errs["name"] = "Name is required"
	}

	if strings.TrimSpace(s.Bio) == "" {
		errs["bio"] = "Bio is required"
	}

	switch {
	case len(s.Categories) == 0:
		errs["categories"] = "Select at least one category"
	case !allKnown(s.Categories, IsCategory):
		errs["categories"] = "Unknown category"
	}

	switch {
	case len(s.Languages) == 0:
		errs["languages"] = "Select at least one language"
	case !allKnown(s.Languages, IsLanguage):
		errs["languages"] = "Unknown language"
	}

	switch {
	case s.FeeRange == "":
		errs["feeRange"] = "Fee range is required"
	case !IsFeeRange(s.FeeRange):
		errs["feeRange"] = "Unknown fee range"
	}

	if strings.TrimSpace(s.Location) == "" {
		errs["location"] = "Location is required"
	} else if s.Location == LocationOther && strings.TrimSpace(s.CustomLocation) == "" {
		errs["customLocation"] = "Please specify your location"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ResolvedLocation returns the trimmed location, or the trimmed custom
// location when "Other" was chosen.
func (s ArtistSubmission) ResolvedLocation() string {
	if s.Location == LocationOther {
		return strings.TrimSpace(s.CustomLocation)
	}

	return strings.TrimSpace(s.Location)
}

// ToArtist builds the stored artist record. Call Validate first.
func (s ArtistSubmission) ToArtist(at time.Time) Artist {
	return Artist{
		Name:        strings.TrimSpace(s.Name),
		Bio:         strings.TrimSpace(s.Bio),
		Categories:  dedupe(s.Categories),
		Languages:   dedupe(s.Languages),
		FeeRange:    s.FeeRange,
		Location:    s.ResolvedLocation(),
		SubmittedAt: at,
	}
}

func allKnown(values []string, known func(string) bool) bool {
	for _, v := range values {
		if !known(v) {
			return false
		}
	}

	return true
}

// dedupe removes repeated values while keeping first-seen order; the form
// treats categories and languages as sets.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}
