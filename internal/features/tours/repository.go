package tours

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/gotours/internal/pkg/apperror"
	"github.com/xyz-asif/gotours/internal/pkg/crud"
)

// Earth radii used to convert a distance into radians for $centerSphere.
const (
	earthRadiusMiles = 3963.2
	earthRadiusKm    = 6378.1
	metersPerMile    = 0.000621371
)

// DifficultyStats is one aggregation bucket of the catalog statistics.
type DifficultyStats struct {
	Difficulty string  `bson:"_id" json:"difficulty"`
	NumTours   int     `bson:"numTours" json:"numTours"`
	NumRatings int     `bson:"numRatings" json:"numRatings"`
	AvgRating  float64 `bson:"avgRating" json:"avgRating"`
	AvgPrice   float64 `bson:"avgPrice" json:"avgPrice"`
	MinPrice   float64 `bson:"minPrice" json:"minPrice"`
	MaxPrice   float64 `bson:"maxPrice" json:"maxPrice"`
}

// MonthlyPlanEntry counts the tours starting in one month of a year.
type MonthlyPlanEntry struct {
	Month         int      `bson:"month" json:"month"`
	NumTourStarts int      `bson:"numTourStarts" json:"numTourStarts"`
	Tours         []string `bson:"tours" json:"tours"`
}

// TourDistance pairs a tour with its distance from a reference point.
type TourDistance struct {
	Name     string  `bson:"name" json:"name"`
	Distance float64 `bson:"distance" json:"distance"`
}

// Repository runs the tour queries that fall outside the generic store:
// aggregations and geospatial searches.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("tours")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "startLocation", Value: "2dsphere"}},
		},
	})

	return &Repository{collection: collection}
}

func (r *Repository) Collection() *mongo.Collection {
	return r.collection
}

// GetBySlug finds a published tour by slug for the rendered detail page,
// with its reviews expanded and each reviewer reduced to name and photo.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Tour, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"slug":       slug,
			"secretTour": bson.M{"$ne": true},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "reviews",
			"localField":   "_id",
			"foreignField": "tour",
			"as":           "reviewDocs",
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$lookup", Value: bson.M{
					"from":         "users",
					"localField":   "user",
					"foreignField": "_id",
					"as":           "userDocs",
					"pipeline": mongo.Pipeline{
						bson.D{{Key: "$project", Value: bson.M{"name": 1, "photo": 1}}},
					},
				}}},
				bson.D{{Key: "$project", Value: bson.M{
					"review":    1,
					"rating":    1,
					"createdAt": 1,
					"userDocs":  1,
				}}},
			},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []Tour
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// Stats groups the published catalog by difficulty with rating and price
// aggregates. Only well-rated tours count.
func (r *Repository) Stats(ctx context.Context) ([]DifficultyStats, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"ratingsAverage": bson.M{"$gte": 4.5}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"avgPrice": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := []DifficultyStats{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// MonthlyPlan counts the tour starts per month of the given year, busiest
// month first.
func (r *Repository) MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanEntry, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$startDates"}},
		bson.D{{Key: "$match", Value: bson.M{
			"startDates": bson.M{
				"$gte": yearStart(year),
				"$lte": yearEnd(year),
			},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		bson.D{{Key: "$project", Value: bson.M{"_id": 0}}},
		bson.D{{Key: "$sort", Value: bson.M{"numTourStarts": -1}}},
		bson.D{{Key: "$limit", Value: 12}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plan := []MonthlyPlanEntry{}
	if err := cursor.All(ctx, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Within returns the tours whose start location falls inside the sphere of
// the given radius around the center point.
func (r *Repository) Within(ctx context.Context, distance float64, lat, lng float64, unit string) ([]Tour, error) {
	radius := distance / earthRadiusMiles
	if unit == "km" {
		radius = distance / earthRadiusKm
	}

	cursor, err := r.collection.Find(ctx, bson.M{
		"startLocation": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radius},
			},
		},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	found := []Tour{}
	if err := cursor.All(ctx, &found); err != nil {
		return nil, err
	}
	return found, nil
}

// Distances computes the distance from the given point to every tour start
// location, in the requested unit.
func (r *Repository) Distances(ctx context.Context, lat, lng float64, unit string) ([]TourDistance, error) {
	multiplier := metersPerMile
	if unit == "km" {
		multiplier = 0.001
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": bson.A{lng, lat},
			},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
		}}},
		bson.D{{Key: "$project", Value: bson.M{"distance": 1, "name": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	distances := []TourDistance{}
	if err := cursor.All(ctx, &distances); err != nil {
		return nil, err
	}
	return distances, nil
}

// ParseLatLng splits a "lat,lng" path parameter.
func ParseLatLng(raw string) (lat, lng float64, err error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, apperror.BadRequest("Please provide latitude and longitude in the format lat,lng.")
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, apperror.BadRequest("Please provide latitude and longitude in the format lat,lng.")
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, apperror.BadRequest("Please provide latitude and longitude in the format lat,lng.")
	}
	return lat, lng, nil
}

// tourLookups describes the related-resource expansions. Both join
// collections hold more than the response may show: the guides whitelist
// keeps credential fields out of the envelope, the reviews whitelist keeps
// the payload to what the detail views render.
var tourLookups = map[string]crud.Lookup{
	"guides": {
		From:         "users",
		LocalField:   "guides",
		ForeignField: "_id",
		As:           "guideDocs",
		Project:      bson.M{"name": 1, "photo": 1, "role": 1},
	},
	"reviews": {
		From:         "reviews",
		LocalField:   "_id",
		ForeignField: "tour",
		As:           "reviewDocs",
		Project:      bson.M{"review": 1, "rating": 1, "user": 1, "createdAt": 1},
	},
}

// NewStore builds the generic CRUD store for tours. Secret tours stay out
// of every read.
func NewStore(repo *Repository) *crud.MongoStore[Tour] {
	return crud.NewMongoStore(repo.Collection(), crud.StoreConfig[Tour]{
		BaseFilter:    bson.M{"secretTour": bson.M{"$ne": true}},
		Lookups:       tourLookups,
		Validate:      ValidateNew,
		ValidatePatch: ValidatePatch,
	})
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
}
