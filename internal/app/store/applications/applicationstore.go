// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"time"

	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("applications")}
}

// CreateResult reports whether the upsert inserted a new application or
// found the row a previous attempt with the same request key created.
type CreateResult struct {
	Application models.Application
	Duplicate   bool
}

// Create persists an application, idempotent on (cohort_id, request_id).
// A retry with the same request key returns the original row with
// Duplicate=true; at most one application exists per successful flow
// traversal.
func (s *Store) Create(ctx context.Context, app models.Application) (CreateResult, error) {
	now := time.Now().UTC()
	app.ID = primitive.NewObjectID()
	app.Status = "Submitted"
	app.CreatedAt = now
	app.UpdatedAt = now

	filter := bson.M{"cohort_id": app.CohortID, "request_id": app.RequestID}
	update := bson.M{"$setOnInsert": app}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.Application
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		return CreateResult{}, err
	}
	// An insert carries the id we generated; any other id means the
	// request key already had a row and this call is a replay.
	return CreateResult{Application: out, Duplicate: out.ID != app.ID}, nil
}

// ListByContact returns the contact's applications, newest first.
func (s *Store) ListByContact(ctx context.Context, contactID primitive.ObjectID) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"contact_id": contactID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Application
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExistsByContact reports whether the contact has any application.
func (s *Store) ExistsByContact(ctx context.Context, contactID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"contact_id": contactID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
