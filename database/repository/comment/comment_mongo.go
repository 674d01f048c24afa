package commentRepo

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

// MongoCommentRepo implements CommentRepository using MongoDB.
type MongoCommentRepo struct {
	coll *mongo.Collection
}

// NewMongoCommentRepo creates a CommentRepository backed by the comments
// collection.
func NewMongoCommentRepo() CommentRepository {
	repo := &MongoCommentRepo{coll: database.Collection("comments")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create comment indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoCommentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "parentId", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "parentId", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Create inserts a new comment document.
func (r *MongoCommentRepo) Create(comment *models.Comment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	comment.CreatedAt = time.Now()
	if comment.Likes == nil {
		comment.Likes = []string{}
	}
	if comment.Dislikes == nil {
		comment.Dislikes = []string{}
	}
	if comment.Replies == nil {
		comment.Replies = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by id.
func (r *MongoCommentRepo) GetByID(id string) (*models.Comment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var comment models.Comment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch comment %s: %w", id, err)
	}
	return &comment, nil
}

// SetFields applies a partial update to a comment document.
func (r *MongoCommentRepo) SetFields(id string, fields map[string]interface{}) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update comment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("comment %s not found", id)
	}
	return nil
}

func (r *MongoCommentRepo) find(filter bson.M) ([]models.Comment, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

// RootsByPost returns root comments ordered by creation time ascending.
func (r *MongoCommentRepo) RootsByPost(postID string) ([]models.Comment, error) {
	return r.find(bson.M{"postId": postID, "parentId": ""})
}

// ByParent returns direct replies ordered by creation time ascending.
func (r *MongoCommentRepo) ByParent(parentID string) ([]models.Comment, error) {
	return r.find(bson.M{"parentId": parentID})
}

// ChildIDs returns the ids of direct replies.
func (r *MongoCommentRepo) ChildIDs(parentID string) ([]string, error) {
	children, err := r.ByParent(parentID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// DeleteMany removes the given comments in one operation.
func (r *MongoCommentRepo) DeleteMany(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	return nil
}

// AddReply appends a child id to the parent's replies array.
func (r *MongoCommentRepo) AddReply(parentID, childID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$addToSet": bson.M{"replies": childID}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": parentID}, update)
	if err != nil {
		return fmt.Errorf("failed to add reply to comment %s: %w", parentID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("comment %s not found", parentID)
	}
	return nil
}

// RemoveReply pulls a child id from the parent's replies array.
func (r *MongoCommentRepo) RemoveReply(parentID, childID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$pull": bson.M{"replies": childID}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": parentID}, update); err != nil {
		return fmt.Errorf("failed to remove reply from comment %s: %w", parentID, err)
	}
	return nil
}

// React applies a reaction change as one atomic update, so set membership
// and the denormalized counters move in lockstep.
func (r *MongoCommentRepo) React(id string, change ReactionChange) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	addToSet := bson.M{}
	pull := bson.M{}
	inc := bson.M{}

	if change.AddLike {
		addToSet["likes"] = change.UserID
		inc["likesCount"] = 1
	}
	if change.RemoveLike {
		pull["likes"] = change.UserID
		inc["likesCount"] = -1
	}
	if change.AddDislike {
		addToSet["dislikes"] = change.UserID
		inc["dislikesCount"] = 1
	}
	if change.RemoveDislike {
		pull["dislikes"] = change.UserID
		inc["dislikesCount"] = -1
	}

	update := bson.M{}
	if len(addToSet) > 0 {
		update["$addToSet"] = addToSet
	}
	if len(pull) > 0 {
		update["$pull"] = pull
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	if len(update) == 0 {
		return nil
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to apply reaction to comment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("comment %s not found", id)
	}
	return nil
}

func (r *MongoCommentRepo) count(filter bson.M) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}

func (r *MongoCommentRepo) CountByPost(postID string) (int64, error) {
	return r.count(bson.M{"postId": postID})
}

func (r *MongoCommentRepo) CountByPostSince(postID string, since time.Time) (int64, error) {
	return r.count(bson.M{"postId": postID, "createdAt": bson.M{"$gte": since}})
}

// DeleteByPost removes every comment on a post.
func (r *MongoCommentRepo) DeleteByPost(postID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		return fmt.Errorf("failed to delete comments for post %s: %w", postID, err)
	}
	return nil
}

// DeleteByCreator removes every comment created by the user.
func (r *MongoCommentRepo) DeleteByCreator(userID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"createdBy": userID}); err != nil {
		return fmt.Errorf("failed to delete comments by %s: %w", userID, err)
	}
	return nil
}

// All lists every comment document.
func (r *MongoCommentRepo) All() ([]models.Comment, error) {
	ctx, cancel := newContext(30 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}
