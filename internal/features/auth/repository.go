package auth

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xyz-asif/gotours/internal/pkg/apperror"
)

// activeOnly hides soft-deleted accounts from every lookup.
var activeOnly = bson.M{"active": bson.M{"$ne": false}}

// Repository handles database interactions for users and credentials.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository and creates necessary indexes.
func NewRepository(db *mongo.Database) *Repository {
	collection := db.Collection("users")

	_, _ = collection.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "passwordResetToken", Value: 1}},
		},
	})

	return &Repository{collection: collection}
}

// Collection exposes the users collection for the admin CRUD store.
func (r *Repository) Collection() *mongo.Collection {
	return r.collection
}

// CreateUser inserts a new user. The password must already be hashed.
func (r *Repository) CreateUser(ctx context.Context, user *User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Active = true
	if user.Role == "" {
		user.Role = RoleUser
	}
	if user.Photo == "" {
		user.Photo = "default.jpg"
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// GetByEmail finds an active user by email. Returns nil with no error when
// no user matches so the caller can shape its own failure.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, withActive(bson.M{"email": email})).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID finds an active user by hex id.
func (r *Repository) GetByID(ctx context.Context, userID string) (*User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apperror.BadRequest("Invalid user ID")
	}

	var user User
	err = r.collection.FindOne(ctx, withActive(bson.M{"_id": oid})).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByResetToken finds the user holding the given reset-token hash with an
// expiry still in the future.
func (r *Repository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*User, error) {
	var user User
	err := r.collection.FindOne(ctx, resetTokenFilter(tokenHash, now)).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// SetResetToken stores the one-way hash of a reset token and its expiry.
// The raw token is never persisted.
func (r *Repository) SetResetToken(ctx context.Context, userID primitive.ObjectID, tokenHash string, expires time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": expires,
			"updatedAt":            time.Now(),
		},
	})
	return err
}

// ClearResetToken removes any pending reset state.
func (r *Repository) ClearResetToken(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		},
	})
	return err
}

// UpdatePassword stores a new password hash, bumps passwordChangedAt and
// clears any pending reset token. The changed-at timestamp is backdated one
// second so a session token issued in the same second stays valid.
func (r *Repository) UpdatePassword(ctx context.Context, userID primitive.ObjectID, passwordHash string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, passwordUpdate(passwordHash, time.Now()))
	return err
}

// passwordUpdate backdates passwordChangedAt one second so tokens issued in
// the same instant still pass the freshness check, and clears any pending
// reset token.
func passwordUpdate(passwordHash string, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"password":          passwordHash,
			"passwordChangedAt": now.Add(-time.Second),
			"updatedAt":         now,
		},
		"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		},
	}
}

// UpdateProfile applies a whitelisted profile patch and returns the updated
// user.
func (r *Repository) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch bson.M) (*User, error) {
	patch["updatedAt"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user User
	err := r.collection.FindOneAndUpdate(ctx, withActive(bson.M{"_id": userID}), bson.M{"$set": patch}, opts).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Deactivate soft-deletes the account; the active filter hides it from all
// subsequent queries.
func (r *Repository) Deactivate(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"active": false, "updatedAt": time.Now()},
	})
	return err
}

// resetTokenFilter matches the stored token hash, never the raw token, and
// only while the expiry is still in the future.
func resetTokenFilter(tokenHash string, now time.Time) bson.M {
	return withActive(bson.M{
		"passwordResetToken":   tokenHash,
		"passwordResetExpires": bson.M{"$gt": now},
	})
}

func withActive(filter bson.M) bson.M {
	merged := bson.M{}
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range activeOnly {
		merged[k] = v
	}
	return merged
}
