package bookings

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/gotours/internal/pkg/apperror"
)

// Booking records a purchased tour at the price paid.
type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Tour      primitive.ObjectID `bson:"tour" json:"tour"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Price     float64            `bson:"price" json:"price"`
	Paid      *bool              `bson:"paid" json:"paid"`
	TourDocs  []bson.M           `bson:"tourDocs,omitempty" json:"tourDetails,omitempty"`
	UserDocs  []bson.M           `bson:"userDocs,omitempty" json:"userDetails,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidateNew checks the document invariants before insert.
func ValidateNew(b *Booking) error {
	if b.Tour.IsZero() {
		return apperror.Validation("Booking must belong to a tour!")
	}
	if b.User.IsZero() {
		return apperror.Validation("Booking must belong to a user!")
	}
	if b.Price <= 0 {
		return apperror.Validation("Booking must have a price.")
	}
	if b.Paid == nil {
		paid := true
		b.Paid = &paid
	}
	b.CreatedAt = time.Now()
	return nil
}
