// internal/app/store/participation/participationstore.go
package participationstore

import (
	"context"
	"time"

	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("participation")}
}

// Create inserts an Active participation row.
func (s *Store) Create(ctx context.Context, contactID primitive.ObjectID, teamID *primitive.ObjectID, cohortID primitive.ObjectID) (models.Participation, error) {
	now := time.Now().UTC()
	p := models.Participation{
		ID:        primitive.NewObjectID(),
		ContactID: contactID,
		TeamID:    teamID,
		CohortID:  cohortID,
		Status:    models.ParticipationActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Participation{}, err
	}
	return p, nil
}

// ListActiveByContact returns the contact's Active rows.
func (s *Store) ListActiveByContact(ctx context.Context, contactID primitive.ObjectID) ([]models.Participation, error) {
	cur, err := s.c.Find(ctx, bson.M{"contact_id": contactID, "status": models.ParticipationActive})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Participation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveTeamByContact returns the contact's Active rows that carry a
// team link. These are the rows the one-active-team-program rule counts.
func (s *Store) ListActiveTeamByContact(ctx context.Context, contactID primitive.ObjectID) ([]models.Participation, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"contact_id": contactID,
		"status":     models.ParticipationActive,
		"team_id":    bson.M{"$exists": true, "$ne": nil},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Participation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveByTeam returns a team's Active rows.
func (s *Store) ListActiveByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.Participation, error) {
	cur, err := s.c.Find(ctx, bson.M{"team_id": teamID, "status": models.ParticipationActive})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Participation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExistsActiveByContact reports whether the contact has any Active row.
func (s *Store) ExistsActiveByContact(ctx context.Context, contactID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"contact_id": contactID, "status": models.ParticipationActive}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeactivateActiveByContact flips the contact's Active rows to Inactive,
// optionally scoped to one team. Returns the number of rows changed.
// Leave calls this as a best-effort secondary sync.
func (s *Store) DeactivateActiveByContact(ctx context.Context, contactID primitive.ObjectID, teamID *primitive.ObjectID) (int64, error) {
	filter := bson.M{"contact_id": contactID, "status": models.ParticipationActive}
	if teamID != nil {
		filter["team_id"] = *teamID
	}
	res, err := s.c.UpdateMany(ctx, filter, bson.M{
		"$set": bson.M{"status": models.ParticipationInactive, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
