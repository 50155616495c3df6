package reviews

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/gotours/internal/pkg/apperror"
)

// Review ties a rating and text to one tour by one user. The unique
// {tour, user} index keeps a user to a single review per tour.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Review    string             `bson:"review" json:"review"`
	Rating    float64            `bson:"rating" json:"rating"`
	Tour      primitive.ObjectID `bson:"tour" json:"tour"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	UserDocs  []bson.M           `bson:"userDocs,omitempty" json:"userDetails,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateReviewRequest is the payload for posting a review. Tour and user
// are optional; on nested routes they default from the path and session.
type CreateReviewRequest struct {
	Review string  `json:"review" binding:"required"`
	Rating float64 `json:"rating" binding:"required"`
	Tour   string  `json:"tour"`
	User   string  `json:"user"`
}

// ValidateNew normalizes defaults and checks the document invariants
// before insert.
func ValidateNew(r *Review) error {
	if r.Review == "" {
		return apperror.Validation("Review can not be empty!")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return apperror.Validation("Rating must be between 1.0 and 5.0")
	}
	if r.Tour.IsZero() {
		return apperror.Validation("Review must belong to a tour.")
	}
	if r.User.IsZero() {
		return apperror.Validation("Review must belong to a user.")
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

// ValidatePatch restricts updates to the review text and rating; a review
// never moves to another tour or user.
func ValidatePatch(patch bson.M) error {
	for key := range patch {
		switch key {
		case "review", "rating":
		default:
			return apperror.Validation("Only review and rating can be updated.")
		}
	}
	if rating, ok := patch["rating"]; ok {
		value, valid := toFloat(rating)
		if !valid || value < 1 || value > 5 {
			return apperror.Validation("Rating must be between 1.0 and 5.0")
		}
	}
	patch["updatedAt"] = time.Now()
	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
