package regRepo

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

// MongoRegistrationRepo implements RegistrationRepository using MongoDB.
type MongoRegistrationRepo struct {
	coll *mongo.Collection
}

// NewMongoRegistrationRepo creates a RegistrationRepository backed by the
// temp_users collection.
func NewMongoRegistrationRepo() RegistrationRepository {
	repo := &MongoRegistrationRepo{coll: database.Collection("temp_users")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create registration indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoRegistrationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByEmail retrieves the pending record for the email.
func (r *MongoRegistrationRepo) GetByEmail(email string) (*models.PendingRegistration, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var rec models.PendingRegistration
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pending registration for %s: %w", email, err)
	}
	return &rec, nil
}

// Upsert replaces the record for the email wholesale. A step-1 resubmission
// therefore drops any prior otpVerified flag along with the old OTP.
func (r *MongoRegistrationRepo) Upsert(rec *models.PendingRegistration) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	rec.UpdatedAt = time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"email": rec.Email}, rec, opts); err != nil {
		return fmt.Errorf("failed to upsert pending registration for %s: %w", rec.Email, err)
	}
	return nil
}

// SetFields applies a partial update to the record for the email.
func (r *MongoRegistrationRepo) SetFields(email string, fields map[string]interface{}) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("failed to update pending registration for %s: %w", email, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("pending registration for %s not found", email)
	}
	return nil
}

// DeleteByEmail removes the pending record.
func (r *MongoRegistrationRepo) DeleteByEmail(email string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"email": email}); err != nil {
		return fmt.Errorf("failed to delete pending registration for %s: %w", email, err)
	}
	return nil
}
