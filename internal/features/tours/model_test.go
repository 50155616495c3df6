package tours

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func validTour() *Tour {
	return &Tour{
		Name:         "The Forest Hiker Tour",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		ImageCover:   "tour-1-cover.jpg",
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "The Forest Hiker", "the-forest-hiker"},
		{"punctuation collapses", "The Snow  Adventurer!", "the-snow-adventurer"},
		{"digits survive", "Top 10 Peaks", "top-10-peaks"},
		{"trailing junk trimmed", "The Sea Explorer ", "the-sea-explorer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestValidateNewFillsDefaults(t *testing.T) {
	tour := validTour()
	require.NoError(t, ValidateNew(tour))

	require.Equal(t, "the-forest-hiker-tour", tour.Slug)
	require.Equal(t, 4.5, tour.RatingsAverage)
	require.False(t, tour.CreatedAt.IsZero())
}

func TestValidateNewRejectsBadFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Tour)
		wantMsg string
	}{
		{"short name", func(t *Tour) { t.Name = "Short" }, "between 10 and 40 characters"},
		{"bad difficulty", func(t *Tour) { t.Difficulty = "impossible" }, "easy, medium, difficult"},
		{"zero price", func(t *Tour) { t.Price = 0 }, "positive price"},
		{"discount above price", func(t *Tour) { t.PriceDiscount = 500 }, "below regular price"},
		{"no duration", func(t *Tour) { t.Duration = 0 }, "must have a duration"},
		{"no summary", func(t *Tour) { t.Summary = "" }, "must have a summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tour := validTour()
			tt.mutate(tour)
			err := ValidateNew(tour)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidatePatchKeepsSlugInStep(t *testing.T) {
	patch := bson.M{"name": "The Renamed Adventure"}
	require.NoError(t, ValidatePatch(patch))
	require.Equal(t, "the-renamed-adventure", patch["slug"])
}

func TestValidatePatchRejectsBadRating(t *testing.T) {
	err := ValidatePatch(bson.M{"ratingsAverage": 5.5})
	require.Error(t, err)
	require.Contains(t, err.Error(), "between 1.0 and 5.0")
}

func TestParseLatLng(t *testing.T) {
	lat, lng, err := ParseLatLng("34.111745,-118.113491")
	require.NoError(t, err)
	require.InDelta(t, 34.111745, lat, 1e-9)
	require.InDelta(t, -118.113491, lng, 1e-9)

	_, _, err = ParseLatLng("34.111745")
	require.Error(t, err)

	_, _, err = ParseLatLng("north,west")
	require.Error(t, err)
}

func TestGuideExpansionNeverCarriesCredentials(t *testing.T) {
	project := tourLookups["guides"].Project
	require.NotEmpty(t, project)

	// whitelist only: every listed field is an inclusion
	for field, value := range project {
		require.Equal(t, 1, value, field)
	}
	for _, field := range []string{"password", "passwordResetToken", "passwordResetExpires", "passwordChangedAt"} {
		require.NotContains(t, project, field)
	}
}

func TestGuideExpansionRendersSafely(t *testing.T) {
	// a guide doc shaped exactly like the whitelisted join output
	tour := validTour()
	tour.GuideDocs = []bson.M{{"name": "Steve Miller", "photo": "user-14.jpg", "role": "guide"}}

	payload, err := json.Marshal(tour)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"guideDetails"`)
	require.NotContains(t, string(payload), "password")
	require.NotContains(t, string(payload), "$2a$")
}
