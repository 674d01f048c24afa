package postRepo

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

// MongoPostRepo implements PostRepository over the posts and options
// collections.
type MongoPostRepo struct {
	posts   *mongo.Collection
	options *mongo.Collection
}

// NewMongoPostRepo creates a new PostRepository using MongoDB.
func NewMongoPostRepo() PostRepository {
	repo := &MongoPostRepo{
		posts:   database.Collection("posts"),
		options: database.Collection("options"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create post indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoPostRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	postIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := r.posts.Indexes().CreateMany(ctx, postIndexes); err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}

	optionIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "postId", Value: 1}}},
	}
	if _, err := r.options.Indexes().CreateMany(ctx, optionIndexes); err != nil {
		return fmt.Errorf("failed to create option indexes: %w", err)
	}
	return nil
}

// Create inserts a new post document.
func (r *MongoPostRepo) Create(post *models.Post) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	post.CreatedAt = time.Now()
	if post.Images == nil {
		post.Images = []string{}
	}
	if _, err := r.posts.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by id.
func (r *MongoPostRepo) GetByID(id string) (*models.Post, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var post models.Post
	if err := r.posts.FindOne(ctx, bson.M{"id": id}).Decode(&post); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch post %s: %w", id, err)
	}
	return &post, nil
}

// SetFields applies a partial update to a post document.
func (r *MongoPostRepo) SetFields(id string, fields map[string]interface{}) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now()
	result, err := r.posts.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update post %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("post %s not found", id)
	}
	return nil
}

// Delete removes a post document.
func (r *MongoPostRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.posts.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return nil
}

// List returns one page of posts plus the total match count.
func (r *MongoPostRepo) List(q ListQuery) ([]models.Post, int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{}
	if q.CreatedBy != "" {
		filter["createdBy"] = q.CreatedBy
	}
	if q.Search != "" {
		filter["title"] = bson.M{"$gte": q.Search, "$lte": q.Search + ""}
	}

	total, err := r.posts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	dir := -1
	if q.Order == "asc" {
		dir = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortBy, Value: dir}}).
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize)

	cursor, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, total, nil
}

// CreatedSince returns all posts created at or after the given time.
func (r *MongoPostRepo) CreatedSince(since time.Time) ([]models.Post, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.posts.Find(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

// SearchByTitle returns posts whose title starts with the prefix.
func (r *MongoPostRepo) SearchByTitle(prefix string) ([]models.Post, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"title": bson.M{"$gte": prefix, "$lte": prefix + ""}}
	cursor, err := r.posts.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

// DeleteByCreator removes every post created by the user.
func (r *MongoPostRepo) DeleteByCreator(userID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.posts.DeleteMany(ctx, bson.M{"createdBy": userID}); err != nil {
		return fmt.Errorf("failed to delete posts by %s: %w", userID, err)
	}
	return nil
}

// CreateOption inserts a new option document.
func (r *MongoPostRepo) CreateOption(option *models.Option) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.options.InsertOne(ctx, option); err != nil {
		return fmt.Errorf("failed to create option: %w", err)
	}
	return nil
}

// GetOption retrieves an option by id.
func (r *MongoPostRepo) GetOption(id string) (*models.Option, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var option models.Option
	if err := r.options.FindOne(ctx, bson.M{"id": id}).Decode(&option); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch option %s: %w", id, err)
	}
	return &option, nil
}

// SetOptionFields applies a partial update to an option document.
func (r *MongoPostRepo) SetOptionFields(id string, fields map[string]interface{}) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.options.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update option %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("option %s not found", id)
	}
	return nil
}

// DeleteOption removes an option document.
func (r *MongoPostRepo) DeleteOption(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.options.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete option %s: %w", id, err)
	}
	return nil
}

// OptionsByPost lists the options belonging to a post.
func (r *MongoPostRepo) OptionsByPost(postID string) ([]models.Option, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.options.Find(ctx, bson.M{"postId": postID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch options for post %s: %w", postID, err)
	}
	defer cursor.Close(ctx)

	var opts []models.Option
	if err := cursor.All(ctx, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	return opts, nil
}

// DeleteOptionsByPost removes every option belonging to a post.
func (r *MongoPostRepo) DeleteOptionsByPost(postID string) error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if _, err := r.options.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		return fmt.Errorf("failed to delete options for post %s: %w", postID, err)
	}
	return nil
}

// IncOptionVotes atomically adjusts the denormalized vote counter.
func (r *MongoPostRepo) IncOptionVotes(id string, delta int64) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.options.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$inc": bson.M{"votesCount": delta}})
	if err != nil {
		return fmt.Errorf("failed to adjust votes for option %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("option %s not found", id)
	}
	return nil
}

// AllOptions lists every option document.
func (r *MongoPostRepo) AllOptions() ([]models.Option, error) {
	ctx, cancel := newContext(30 * time.Second)
	defer cancel()

	cursor, err := r.options.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list options: %w", err)
	}
	defer cursor.Close(ctx)

	var opts []models.Option
	if err := cursor.All(ctx, &opts); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	return opts, nil
}
