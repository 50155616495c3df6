package reviews

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validReview() *Review {
	return &Review{
		Review: "Absolutely loved every minute of it.",
		Rating: 5,
		Tour:   primitive.NewObjectID(),
		User:   primitive.NewObjectID(),
	}
}

func TestValidateNew(t *testing.T) {
	review := validReview()
	require.NoError(t, ValidateNew(review))
	require.False(t, review.CreatedAt.IsZero())
}

func TestValidateNewRejectsMissingPieces(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Review)
		wantMsg string
	}{
		{"empty text", func(r *Review) { r.Review = "" }, "can not be empty"},
		{"rating too low", func(r *Review) { r.Rating = 0.5 }, "between 1.0 and 5.0"},
		{"rating too high", func(r *Review) { r.Rating = 6 }, "between 1.0 and 5.0"},
		{"no tour", func(r *Review) { r.Tour = primitive.NilObjectID }, "belong to a tour"},
		{"no user", func(r *Review) { r.User = primitive.NilObjectID }, "belong to a user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := validReview()
			tt.mutate(review)
			err := ValidateNew(review)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidatePatchAllowsOnlyTextAndRating(t *testing.T) {
	require.NoError(t, ValidatePatch(bson.M{"review": "changed my mind", "rating": 3}))

	err := ValidatePatch(bson.M{"tour": primitive.NewObjectID()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "Only review and rating")

	err = ValidatePatch(bson.M{"rating": 12})
	require.Error(t, err)
	require.Contains(t, err.Error(), "between 1.0 and 5.0")
}

func TestUserExpansionNeverCarriesCredentials(t *testing.T) {
	project := reviewLookups["user"].Project
	require.Equal(t, bson.M{"name": 1, "photo": 1}, project)
	for _, field := range []string{"password", "passwordResetToken", "passwordResetExpires"} {
		require.NotContains(t, project, field)
	}
}
