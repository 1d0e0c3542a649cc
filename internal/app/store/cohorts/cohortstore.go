// internal/app/store/cohorts/cohortstore.go
package cohortstore

import (
	"context"

	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store reads cohorts and their parent initiatives. Both are reference
// data here: nothing in this system writes them.
type Store struct {
	cohorts     *mongo.Collection
	initiatives *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		cohorts:     db.Collection("cohorts"),
		initiatives: db.Collection("initiatives"),
	}
}

// GetByID returns a cohort.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Cohort, error) {
	var out models.Cohort
	err := s.cohorts.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	return out, err
}

// InitiativeByID returns an initiative.
func (s *Store) InitiativeByID(ctx context.Context, id primitive.ObjectID) (models.Initiative, error) {
	var out models.Initiative
	err := s.initiatives.FindOne(ctx, bson.M{"_id": id}).Decode(&out)
	return out, err
}

// InitiativeByName returns an initiative by case-folded name.
func (s *Store) InitiativeByName(ctx context.Context, nameCI string) (models.Initiative, error) {
	var out models.Initiative
	err := s.initiatives.FindOne(ctx, bson.M{"name_ci": nameCI}).Decode(&out)
	return out, err
}

// CohortDetail pairs a cohort with its initiative for browse/apply views.
type CohortDetail struct {
	Cohort     models.Cohort     `json:"cohort"`
	Initiative models.Initiative `json:"initiative"`
}

// GetDetail returns the cohort with its initiative resolved.
func (s *Store) GetDetail(ctx context.Context, id primitive.ObjectID) (CohortDetail, error) {
	cohort, err := s.GetByID(ctx, id)
	if err != nil {
		return CohortDetail{}, err
	}
	initiative, err := s.InitiativeByID(ctx, cohort.InitiativeID)
	if err != nil {
		return CohortDetail{}, err
	}
	return CohortDetail{Cohort: cohort, Initiative: initiative}, nil
}

// ListOpen returns cohorts accepting applications, newest first, with
// initiatives resolved in one pass.
func (s *Store) ListOpen(ctx context.Context) ([]CohortDetail, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.cohorts.Find(ctx, bson.M{"status": models.CohortStatusOpen}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cohorts []models.Cohort
	if err := cur.All(ctx, &cohorts); err != nil {
		return nil, err
	}
	if len(cohorts) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, 0, len(cohorts))
	for _, c := range cohorts {
		ids = append(ids, c.InitiativeID)
	}
	icur, err := s.initiatives.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer icur.Close(ctx)

	byID := make(map[primitive.ObjectID]models.Initiative)
	for icur.Next(ctx) {
		var ini models.Initiative
		if err := icur.Decode(&ini); err != nil {
			return nil, err
		}
		byID[ini.ID] = ini
	}
	if err := icur.Err(); err != nil {
		return nil, err
	}

	out := make([]CohortDetail, 0, len(cohorts))
	for _, c := range cohorts {
		out = append(out, CohortDetail{Cohort: c, Initiative: byID[c.InitiativeID]})
	}
	return out, nil
}

// ListByIDs returns cohorts for a team's cohort link list.
func (s *Store) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Cohort, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.cohorts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Cohort
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
