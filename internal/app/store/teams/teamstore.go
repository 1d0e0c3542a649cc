// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

var ErrDuplicateTeamName = errors.New("a team with this name already exists")

// Create inserts a team, filling id, folded name, and timestamps.
func (s *Store) Create(ctx context.Context, team models.Team) (models.Team, error) {
	now := time.Now().UTC()
	team.ID = primitive.NewObjectID()
	team.NameCI = text.Fold(team.Name)
	team.CreatedAt = now
	team.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, team); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateTeamName
		}
		return models.Team{}, err
	}
	return team, nil
}

// GetByID returns a team.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var out models.Team
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	return out, err
}

// ListByIDs returns the teams for a set of ids (order unspecified).
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LinkCohort records the team's enrollment in a cohort. $addToSet keeps
// the link list duplicate-free under retries.
func (s *Store) LinkCohort(ctx context.Context, teamID, cohortID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{
		"$addToSet": bson.M{"cohort_ids": cohortID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddPoints adjusts the team's point total.
func (s *Store) AddPoints(ctx context.Context, teamID primitive.ObjectID, delta int) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{
		"$inc": bson.M{"points": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
