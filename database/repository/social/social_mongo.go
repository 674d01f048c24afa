package socialRepo

import (
	"context"
	"time"

	"wsid/database"
	"wsid/models"
	"wsid/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoSocialRepo is the MongoDB implementation of SocialRepository.
type MongoSocialRepo struct {
	follows       *mongo.Collection
	likes         *mongo.Collection
	subscriptions *mongo.Collection
}

func NewMongoSocialRepo() *MongoSocialRepo {
	r := &MongoSocialRepo{
		follows:       database.Collection("follows"),
		likes:         database.Collection("profile_likes"),
		subscriptions: database.Collection("subscriptions"),
	}
	r.ensureIndexes()
	return r
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoSocialRepo) ensureIndexes() {
	logger := utils.GetLogger()
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.follows.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "followerId", Value: 1},
			{Key: "followingId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Error("failed to create follows index", zap.Error(err))
	}
	_, err = r.follows.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "followingId", Value: 1}},
	})
	if err != nil {
		logger.Error("failed to create follows followingId index", zap.Error(err))
	}

	_, err = r.likes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "targetUserId", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Error("failed to create profile_likes index", zap.Error(err))
	}

	_, err = r.subscriptions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		logger.Error("failed to create subscriptions index", zap.Error(err))
	}
}

func (r *MongoSocialRepo) GetFollow(followerID, followingID string) (*models.Follow, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var follow models.Follow
	err := r.follows.FindOne(ctx, bson.M{"followerId": followerID, "followingId": followingID}).Decode(&follow)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (r *MongoSocialRepo) CreateFollow(follow *models.Follow) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.follows.InsertOne(ctx, follow)
	return err
}

func (r *MongoSocialRepo) DeleteFollow(followerID, followingID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.follows.DeleteOne(ctx, bson.M{"followerId": followerID, "followingId": followingID})
	return err
}

func (r *MongoSocialRepo) FollowingSet(followerID string, candidateIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return set, nil
	}

	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.follows.Find(ctx, bson.M{
		"followerId":  followerID,
		"followingId": bson.M{"$in": candidateIDs},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var follow models.Follow
		if err := cursor.Decode(&follow); err != nil {
			return nil, err
		}
		set[follow.FollowingID] = true
	}
	return set, cursor.Err()
}

func (r *MongoSocialRepo) count(coll *mongo.Collection, filter bson.M) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()
	return coll.CountDocuments(ctx, filter)
}

func (r *MongoSocialRepo) CountFollowers(userID string) (int64, error) {
	return r.count(r.follows, bson.M{"followingId": userID})
}

func (r *MongoSocialRepo) CountFollowing(userID string) (int64, error) {
	return r.count(r.follows, bson.M{"followerId": userID})
}

func (r *MongoSocialRepo) CountLikesReceived(userID string) (int64, error) {
	return r.count(r.likes, bson.M{"targetUserId": userID})
}

func (r *MongoSocialRepo) GetLike(userID, targetUserID string) (*models.ProfileLike, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var like models.ProfileLike
	err := r.likes.FindOne(ctx, bson.M{"userId": userID, "targetUserId": targetUserID}).Decode(&like)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *MongoSocialRepo) CreateLike(like *models.ProfileLike) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.likes.InsertOne(ctx, like)
	return err
}

func (r *MongoSocialRepo) DeleteLike(userID, targetUserID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.likes.DeleteOne(ctx, bson.M{"userId": userID, "targetUserId": targetUserID})
	return err
}

func (r *MongoSocialRepo) DeleteAllForUser(userID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.follows.DeleteMany(ctx, bson.M{"$or": []bson.M{
		{"followerId": userID},
		{"followingId": userID},
	}}); err != nil {
		return err
	}
	_, err := r.likes.DeleteMany(ctx, bson.M{"$or": []bson.M{
		{"userId": userID},
		{"targetUserId": userID},
	}})
	return err
}

func (r *MongoSocialRepo) SubscriptionExists(email string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.subscriptions.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MongoSocialRepo) CreateSubscription(sub *models.Subscription) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	_, err := r.subscriptions.InsertOne(ctx, sub)
	return err
}
