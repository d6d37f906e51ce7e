package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(artists []Artist) []string {
	out := make([]string, 0, len(artists))
	for _, a := range artists {
		out = append(out, a.Name)
	}

	return out
}

func TestFilterArtists(t *testing.T) {
	multi := Artist{
		Name:       "Ravi Iyer",
		Categories: []string{"Singer", "Speaker"},
		Languages:  []string{"Tamil"},
		FeeRange:   "₹2500 - ₹3000",
		Location:   "Chennai",
	}
	list := append(SeedArtists(), multi)

	tests := []struct {
		name   string
		filter ArtistFilter
		want   []string
	}{
		{
			name:   "seeded singers in seed order",
			filter: ArtistFilter{Category: "Singer"},
			want:   []string{"Asha Mehta", "Shaan Kapoor", "Lavanya Menon", "Ravi Iyer"},
		},
		{
			name:   "category is membership based",
			filter: ArtistFilter{Category: "Speaker"},
			want:   []string{"Priya Rao", "Anita Desai", "Ravi Iyer"},
		},
		{
			name:   "location ignores case",
			filter: ArtistFilter{Location: "delhi"},
			want:   []string{"Asha Mehta"},
		},
		{
			name:   "fee range is exact",
			filter: ArtistFilter{FeeRange: "₹2000 - ₹2500"},
			want:   []string{"Priya Rao", "DJ Sky", "Lavanya Menon"},
		},
		{
			name:   "criteria are combined",
			filter: ArtistFilter{Category: "Singer", Location: "HYDERABAD", FeeRange: "₹1500 - ₹2000"},
			want:   []string{"Shaan Kapoor"},
		},
		{
			name:   "no match",
			filter: ArtistFilter{Category: "Dancer", Location: "Delhi"},
			want:   []string{},
		},
		{
			name:   "fee range does not partially match",
			filter: ArtistFilter{FeeRange: "₹2000"},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArtists(list, tt.filter)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestFilterArtists_EmptyFilterReturnsInput(t *testing.T) {
	list := SeedArtists()

	got := FilterArtists(list, ArtistFilter{})

	assert.Equal(t, list, got)
}

func TestFilterArtists_Idempotent(t *testing.T) {
	filters := []ArtistFilter{
		{},
		{Category: "DJ"},
		{Location: "hyderabad"},
		{Category: "Singer", FeeRange: "₹2000 - ₹2500"},
	}

	for _, f := range filters {
		once := FilterArtists(SeedArtists(), f)
		twice := FilterArtists(once, f)
		assert.Equal(t, once, twice)
	}
}

func TestFilterArtists_DoesNotModifyInput(t *testing.T) {
	list := SeedArtists()
	before := SeedArtists()

	_ = FilterArtists(list, ArtistFilter{Category: "Singer"})

	assert.Equal(t, before, list)
}

func TestUniqueLocations(t *testing.T) {
	got := UniqueLocations(SeedArtists())

	assert.Equal(t, []string{
		"Bangalore", "Chennai", "Coimbatore", "Delhi", "Hyderabad", "Indore", "Lucknow",
	}, got)
}

func TestFilterIndexed_KeepsInputPositions(t *testing.T) {
	got := FilterIndexed(SeedArtists(), ArtistFilter{Location: "hyderabad"})

	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Index)
	assert.Equal(t, "Priya Rao", got[0].Name)
	assert.Equal(t, 4, got[1].Index)
	assert.Equal(t, "Shaan Kapoor", got[1].Name)

	for _, a := range got {
		assert.Equal(t, SeedArtists()[a.Index], a.Artist)
	}
}
