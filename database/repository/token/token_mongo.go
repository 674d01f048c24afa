package tokenRepo

import (
	"context"
	"fmt"
	"time"

	"wsid/database"
	"wsid/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTokenRepo implements TokenRepository using MongoDB.
type MongoTokenRepo struct {
	coll *mongo.Collection
}

// NewMongoTokenRepo creates a TokenRepository backed by the refresh_tokens
// collection.
func NewMongoTokenRepo() TokenRepository {
	repo := &MongoTokenRepo{coll: database.Collection("refresh_tokens")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create token indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoTokenRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "tokenHash", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Save stores a refresh token row.
func (r *MongoTokenRepo) Save(token *models.RefreshToken) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	token.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, token); err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// Exists reports whether a token hash is still present.
func (r *MongoTokenRepo) Exists(tokenHash string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"tokenHash": tokenHash})
	if err != nil {
		return false, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	return count > 0, nil
}

// DeleteByUser removes every stored token row for the user.
func (r *MongoTokenRepo) DeleteByUser(userID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("failed to delete refresh tokens for user %s: %w", userID, err)
	}
	return nil
}
