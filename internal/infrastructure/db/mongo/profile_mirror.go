package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/authfacil/auth-system/internal/core/domain"
)

const profilesCollection = "profiles"

// ProfileMirror implements ports.ProfileMirror over the profiles collection.
// Documents are keyed by primary_id and never contain password material.
type ProfileMirror struct {
	coll *mongo.Collection
}

func NewProfileMirror(db *mongo.Database) *ProfileMirror {
	return &ProfileMirror{coll: db.Collection(profilesCollection)}
}

// Upsert inserts or updates the document for profile.PrimaryID. registered_at
// is written only on first insert so later edits do not rewrite history.
func (m *ProfileMirror) Upsert(ctx context.Context, profile *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"primary_id": profile.PrimaryID}
	update := bson.M{
		"$set": bson.M{
			"username": profile.Username,
			"email":    profile.Email,
			"role":     profile.Role,
		},
		"$setOnInsert": bson.M{
			"primary_id":    profile.PrimaryID,
			"registered_at": profile.RegisteredAt.UTC(),
		},
	}

	_, err := m.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Remove deletes the document for the given primary id. Removing an absent
// document is not an error.
func (m *ProfileMirror) Remove(ctx context.Context, primaryID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := m.coll.DeleteOne(ctx, bson.M{"primary_id": primaryID})
	if err != nil {
		return fmt.Errorf("remove profile: %w", err)
	}
	return nil
}

// MarkPasswordReset stamps the document with the recovery time.
func (m *ProfileMirror) MarkPasswordReset(ctx context.Context, primaryID int64, when time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := m.coll.UpdateOne(ctx,
		bson.M{"primary_id": primaryID},
		bson.M{"$set": bson.M{"password_reset_at": when.UTC()}},
	)
	if err != nil {
		return fmt.Errorf("mark password reset: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique primary_id index on the profiles
// collection.
func (m *ProfileMirror) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "primary_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := m.coll.Indexes().CreateOne(ctx, index)
	return err
}
