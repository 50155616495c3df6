package bookings

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/xyz-asif/gotours/internal/pkg/crud"
)

// Repository runs the booking queries outside the generic store.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection("bookings")}
}

func (r *Repository) Collection() *mongo.Collection {
	return r.collection
}

// TourIDsForUser returns the ids of every tour the user has booked, for
// the my-tours page.
func (r *Repository) TourIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []Booking
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(found))
	for _, b := range found {
		ids = append(ids, b.Tour)
	}
	return ids, nil
}

// bookingLookups resolves the booked tour and the buyer. The user
// whitelist keeps credential fields out of the join.
var bookingLookups = map[string]crud.Lookup{
	"tour": {
		From:         "tours",
		LocalField:   "tour",
		ForeignField: "_id",
		As:           "tourDocs",
		Project:      bson.M{"name": 1, "slug": 1, "imageCover": 1, "price": 1},
	},
	"user": {
		From:         "users",
		LocalField:   "user",
		ForeignField: "_id",
		As:           "userDocs",
		Project:      bson.M{"name": 1, "email": 1, "photo": 1},
	},
}

// NewStore builds the generic CRUD store for bookings with tour and user
// expansions.
func NewStore(repo *Repository) *crud.MongoStore[Booking] {
	return crud.NewMongoStore(repo.Collection(), crud.StoreConfig[Booking]{
		Lookups:  bookingLookups,
		Validate: ValidateNew,
	})
}
