package voteRepo

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

// MongoVoteRepo implements VoteRepository using MongoDB.
type MongoVoteRepo struct {
	coll *mongo.Collection
}

// NewMongoVoteRepo creates a VoteRepository backed by the votes collection.
func NewMongoVoteRepo() VoteRepository {
	repo := &MongoVoteRepo{coll: database.Collection("votes")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create vote indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates the unique (postId, userId) index that closes the
// concurrent double-submit window.
func (r *MongoVoteRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "optionId", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a vote document.
func (r *MongoVoteRepo) Create(vote *models.Vote) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	vote.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, vote); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &ErrDuplicateVote{PostID: vote.PostID, UserID: vote.UserID}
		}
		return fmt.Errorf("failed to create vote: %w", err)
	}
	return nil
}

// HasVoted reports whether the user voted on the post.
func (r *MongoVoteRepo) HasVoted(postID, userID string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"postId": postID, "userId": userID})
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return count > 0, nil
}

// Find retrieves the user's vote for a post/option.
func (r *MongoVoteRepo) Find(postID, optionID, userID string) (*models.Vote, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var vote models.Vote
	filter := bson.M{"postId": postID, "optionId": optionID, "userId": userID}
	if err := r.coll.FindOne(ctx, filter).Decode(&vote); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch vote: %w", err)
	}
	return &vote, nil
}

// ByPostAndUser retrieves the user's vote on a post regardless of option.
func (r *MongoVoteRepo) ByPostAndUser(postID, userID string) (*models.Vote, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var vote models.Vote
	filter := bson.M{"postId": postID, "userId": userID}
	if err := r.coll.FindOne(ctx, filter).Decode(&vote); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch vote: %w", err)
	}
	return &vote, nil
}

// Delete removes a vote by id.
func (r *MongoVoteRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete vote %s: %w", id, err)
	}
	return nil
}

func (r *MongoVoteRepo) count(filter bson.M) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

func (r *MongoVoteRepo) CountByPost(postID string) (int64, error) {
	return r.count(bson.M{"postId": postID})
}

func (r *MongoVoteRepo) CountByPostSince(postID string, since time.Time) (int64, error) {
	return r.count(bson.M{"postId": postID, "createdAt": bson.M{"$gte": since}})
}

func (r *MongoVoteRepo) CountByOption(optionID string) (int64, error) {
	return r.count(bson.M{"optionId": optionID})
}

// DeleteByPost removes every vote on a post.
func (r *MongoVoteRepo) DeleteByPost(postID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		return fmt.Errorf("failed to delete votes for post %s: %w", postID, err)
	}
	return nil
}

// DeleteByOption removes every vote for a single option.
func (r *MongoVoteRepo) DeleteByOption(optionID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"optionId": optionID}); err != nil {
		return fmt.Errorf("failed to delete votes for option %s: %w", optionID, err)
	}
	return nil
}

// DeleteByUser removes every vote cast by the user.
func (r *MongoVoteRepo) DeleteByUser(userID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("failed to delete votes by user %s: %w", userID, err)
	}
	return nil
}
