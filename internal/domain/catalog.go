package domain

import "slices"

// LocationOther is the location choice that requires a custom location.
const LocationOther = "Other"

var (
	categories = []string{"Singer", "Dancer", "DJ", "Speaker"}

	languages = []string{"Hindi", "English", "Telugu", "Tamil", "Kannada"}

	feeRanges = []string{
		"₹1000 - ₹1500",
		"₹1500 - ₹2000",
		"₹2000 - ₹2500",
		"₹2500 - ₹3000",
		"₹3000 - ₹3500",
		"₹3500 - ₹4000",
		"₹4000 - ₹4500",
	}

	locations = []string{
		"Delhi", "Mumbai", "Bangalore", "Hyderabad", "Kolkata", "Pune", "Chennai",
		"Ahmedabad", "Jaipur", "Lucknow", "Bhopal", "Patna", "Nagpur", "Indore",
		"Chandigarh", "Surat", "Amritsar", "Guwahati", "Raipur", "Thiruvananthapuram",
		"Ranchi", "Vadodara", "Jodhpur", "Udaipur", "Coimbatore", "Hubli",
		"Vijayawada", "Agra", "Gwalior", "Jabalpur", "Vishakhapatnam", LocationOther,
	}

	seedArtists = []Artist{
		{
			Name:       "Asha Mehta",
			Bio:        "Classical and folk singer.",
			Categories: []string{"Singer"},
			Languages:  []string{"Hindi", "English"},
			FeeRange:   "₹1500 - ₹2000",
			Location:   "Delhi",
		},
		{
			Name:       "DJ Blaze",
			Bio:        "Club and wedding DJ.",
			Categories: []string{"DJ"},
			Languages:  []string{"English"},
			FeeRange:   "₹3000 - ₹3500",
			Location:   "Bangalore",
		},
		{
			Name:       "Priya Rao",
			Bio:        "Multilingual speaker.",
			Categories: []string{"Speaker"},
			Languages:  []string{"Hindi", "Telugu"},
			FeeRange:   "₹2000 - ₹2500",
			Location:   "Hyderabad",
		},
		{
			Name:       "Neha Sinha",
			Bio:        "Contemporary dancer.",
			Categories: []string{"Dancer"},
			Languages:  []string{"English", "Hindi"},
			FeeRange:   "₹3500 - ₹4000",
			Location:   "Chennai",
		},
		{
			Name:       "Shaan Kapoor",
			Bio:        "Playback singer.",
			Categories: []string{"Singer"},
			Languages:  []string{"Telugu", "Tamil"},
			FeeRange:   "₹1500 - ₹2000",
			Location:   "Hyderabad",
		},
		{
			Name:       "DJ Sky",
			Bio:        "EDM DJ.",
			Categories: []string{"DJ"},
			Languages:  []string{"English"},
			FeeRange:   "₹2000 - ₹2500",
			Location:   "Indore",
		},
		{
			Name:       "Anita Desai",
			Bio:        "Spiritual speaker.",
			Categories: []string{"Speaker"},
			Languages:  []string{"Hindi"},
			FeeRange:   "₹1000 - ₹1500",
			Location:   "Lucknow",
		},
		{
			Name:       "Lavanya Menon",
			Bio:        "Carnatic vocalist.",
			Categories: []string{"Singer"},
			Languages:  []string{"Tamil"},
			FeeRange:   "₹2000 - ₹2500",
			Location:   "Coimbatore",
		},
	}
)

// Categories returns the closed set of artist categories.
func Categories() []string { return slices.Clone(categories) }

// Languages returns the closed set of spoken languages.
func Languages() []string { return slices.Clone(languages) }

// FeeRanges returns the fee bucket labels in ascending order.
func FeeRanges() []string { return slices.Clone(feeRanges) }

// Locations returns the selectable onboarding locations, ending with LocationOther.
func Locations() []string { return slices.Clone(locations) }

// IsCategory reports whether c is a known category.
func IsCategory(c string) bool { return slices.Contains(categories, c) }

// IsLanguage reports whether l is a known language.
func IsLanguage(l string) bool { return slices.Contains(languages, l) }

// IsFeeRange reports whether f is a known bucket label.
func IsFeeRange(f string) bool { return slices.Contains(feeRanges, f) }

// SeedArtists returns the built-in artists. Each call returns fresh copies.
func SeedArtists() []Artist {
	out := make([]Artist, len(seedArtists))
	for i, a := range seedArtists {
		out[i] = a.Clone()
	}

	return out
}
