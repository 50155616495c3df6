package reviews

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/gotours/internal/pkg/crud"
)

// Defaults a tour falls back to when its last review disappears.
const (
	defaultRatingsAverage  = 4.5
	defaultRatingsQuantity = 0
)

// Service recomputes the denormalized rating fields on tours. Every write
// path through reviews calls it after the review change lands.
type Service struct {
	reviews *mongo.Collection
	tours   *mongo.Collection
}

func NewService(db *mongo.Database) *Service {
	reviews := db.Collection("reviews")

	_, _ = reviews.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &Service{
		reviews: reviews,
		tours:   db.Collection("tours"),
	}
}

func (s *Service) Collection() *mongo.Collection {
	return s.reviews
}

// CalcAverageRatings aggregates the reviews of one tour and writes the
// count and average back onto the tour document. With no reviews left the
// tour resets to its defaults.
func (s *Service) CalcAverageRatings(ctx context.Context, tourID primitive.ObjectID) error {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"tour": tourID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       "$tour",
			"nRating":   bson.M{"$sum": 1},
			"avgRating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := s.reviews.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var stats []struct {
		NRating   int     `bson:"nRating"`
		AvgRating float64 `bson:"avgRating"`
	}
	if err := cursor.All(ctx, &stats); err != nil {
		return err
	}

	quantity := defaultRatingsQuantity
	average := defaultRatingsAverage
	if len(stats) > 0 {
		quantity = stats[0].NRating
		average = math.Round(stats[0].AvgRating*10) / 10
	}

	_, err = s.tours.UpdateOne(ctx, bson.M{"_id": tourID}, bson.M{
		"$set": bson.M{
			"ratingsQuantity": quantity,
			"ratingsAverage":  average,
		},
	})
	return err
}

// reviewLookups resolves the reviewer for display. The whitelist mirrors
// the name-and-photo selection of the rendered review cards and keeps
// credential fields out of the join.
var reviewLookups = map[string]crud.Lookup{
	"user": {
		From:         "users",
		LocalField:   "user",
		ForeignField: "_id",
		As:           "userDocs",
		Project:      bson.M{"name": 1, "photo": 1},
	},
}

// NewStore builds the generic CRUD store for reviews with the user
// expansion for display names and photos.
func NewStore(service *Service) *crud.MongoStore[Review] {
	return crud.NewMongoStore(service.Collection(), crud.StoreConfig[Review]{
		Lookups:       reviewLookups,
		Validate:      ValidateNew,
		ValidatePatch: ValidatePatch,
	})
}
