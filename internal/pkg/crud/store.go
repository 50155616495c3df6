package crud

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/gotours/internal/pkg/apperror"
)

// Store is the capability set a resource type must supply for the generic
// handlers: lookup by id, create, partial update, delete and filtered find.
type Store[T any] interface {
	FindByID(ctx context.Context, id string, expand ...string) (*T, error)
	Create(ctx context.Context, doc *T) (*T, error)
	UpdateByID(ctx context.Context, id string, patch bson.M) (*T, error)
	DeleteByID(ctx context.Context, id string) error
	Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]T, error)
}

// Lookup describes a related-resource expansion resolved with $lookup.
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
	// Project whitelists the fields copied from the joined documents.
	// Expansions over collections holding credentials must set it; a raw
	// join would carry password hashes into the response envelope.
	Project bson.M
}

// StoreConfig customizes a MongoStore. All fields are optional.
type StoreConfig[T any] struct {
	// BaseFilter is merged into every read; request filters cannot override
	// it. Used for things like hiding secret tours or inactive users.
	BaseFilter bson.M
	// Lookups maps expansion names to their $lookup spec.
	Lookups map[string]Lookup
	// Validate runs against a fully bound document before insert.
	Validate func(*T) error
	// ValidatePatch runs against a partial update before it is applied.
	ValidatePatch func(bson.M) error
}

// MongoStore implements Store over a mongo collection.
type MongoStore[T any] struct {
	coll *mongo.Collection
	cfg  StoreConfig[T]
}

func NewMongoStore[T any](coll *mongo.Collection, cfg StoreConfig[T]) *MongoStore[T] {
	return &MongoStore[T]{coll: coll, cfg: cfg}
}

// Collection exposes the underlying collection for feature-specific queries
// (aggregations, geo searches) that fall outside the generic capability set.
func (s *MongoStore[T]) Collection() *mongo.Collection {
	return s.coll
}

func (s *MongoStore[T]) FindByID(ctx context.Context, id string, expand ...string) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.BadRequest("Invalid ID: " + id)
	}

	match := s.scoped(bson.M{"_id": oid})

	if len(expand) == 0 {
		var doc T
		if err := s.coll.FindOne(ctx, match).Decode(&doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
	}
	for _, name := range expand {
		l, ok := s.cfg.Lookups[name]
		if !ok {
			continue
		}
		pipeline = append(pipeline, lookupStage(l))
	}

	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &docs[0], nil
}

func (s *MongoStore[T]) Create(ctx context.Context, doc *T) (*T, error) {
	if s.cfg.Validate != nil {
		if err := s.cfg.Validate(doc); err != nil {
			return nil, err
		}
	}

	result, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, err
	}

	// Re-read so the caller gets the record exactly as stored, id included.
	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return doc, nil
	}
	var created T
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *MongoStore[T]) UpdateByID(ctx context.Context, id string, patch bson.M) (*T, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperror.BadRequest("Invalid ID: " + id)
	}
	if s.cfg.ValidatePatch != nil {
		if err := s.cfg.ValidatePatch(patch); err != nil {
			return nil, err
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated T
	err = s.coll.FindOneAndUpdate(ctx, s.scoped(bson.M{"_id": oid}), bson.M{"$set": patch}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *MongoStore[T]) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperror.BadRequest("Invalid ID: " + id)
	}

	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *MongoStore[T]) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := s.coll.Find(ctx, s.scoped(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []T
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []T{}
	}
	return docs, nil
}

// lookupStage builds the $lookup stage for an expansion. When the Lookup
// carries a projection, the joined documents pass through $project so only
// the whitelisted fields leave the database.
func lookupStage(l Lookup) bson.D {
	spec := bson.M{
		"from":         l.From,
		"localField":   l.LocalField,
		"foreignField": l.ForeignField,
		"as":           l.As,
	}
	if len(l.Project) > 0 {
		spec["pipeline"] = mongo.Pipeline{
			bson.D{{Key: "$project", Value: l.Project}},
		}
	}
	return bson.D{{Key: "$lookup", Value: spec}}
}

// scoped merges the base filter into a query filter without letting the
// query override the base.
func (s *MongoStore[T]) scoped(filter bson.M) bson.M {
	if len(s.cfg.BaseFilter) == 0 {
		return filter
	}
	merged := bson.M{}
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range s.cfg.BaseFilter {
		merged[k] = v
	}
	return merged
}
