// internal/app/store/members/memberstore.go
package memberstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
	return &Store{c: db.Collection("members")}
}

var (
	// ErrNotActiveMember means the contact holds no Active row for the
	// team. Handlers map it to 403.
	ErrNotActiveMember = errors.New("not an active member of this team")

	ErrDuplicateMember = errors.New("contact already has a member row for this team")
)

// Add creates a member row with the given status. A contact who left the
// team earlier keeps their Inactive row; Add flips that row to the new
// status instead of inserting a second one, so rejoin works. Only an
// Active row counts as already-a-member and yields ErrDuplicateMember.
func (s *Store) Add(ctx context.Context, teamID, contactID primitive.ObjectID, role, status string) (models.Member, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"team_id":    teamID,
		"contact_id": contactID,
		"status":     bson.M{"$ne": models.MemberActive},
	}
	update := bson.M{
		"$set":         bson.M{"role": role, "status": status, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.Member
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&out); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, ErrDuplicateMember
		}
		return models.Member{}, err
	}
	return out, nil
}

// ActiveByContactAndTeam resolves the contact's Active row for a team.
// This filtered lookup is the single way a leave locates its join row;
// there is no cached-reference fast path.
func (s *Store) ActiveByContactAndTeam(ctx context.Context, contactID, teamID primitive.ObjectID) (models.Member, error) {
	var out models.Member
	err := s.c.FindOne(ctx, bson.M{
		"contact_id": contactID,
		"team_id":    teamID,
		"status":     models.MemberActive,
	}).Decode(&out)
	if err == mongo.ErrNoDocuments {
		return models.Member{}, ErrNotActiveMember
	}
	return out, err
}

// Deactivate flips one Active row to Inactive.
// Returns ErrNotActiveMember when the row is already gone or inactive,
// so concurrent leaves resolve to one winner.
func (s *Store) Deactivate(ctx context.Context, memberID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": memberID, "status": models.MemberActive},
		bson.M{"$set": bson.M{"status": models.MemberInactive, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotActiveMember
	}
	return nil
}

// DeactivateAllActive flips every Active row for the contact to Inactive
// and returns how many changed. Used when the client cannot resolve
// which team triggered a conflict ("unknown" team id).
func (s *Store) DeactivateAllActive(ctx context.Context, contactID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"contact_id": contactID, "status": models.MemberActive},
		bson.M{"$set": bson.M{"status": models.MemberInactive, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Activate flips an Invited row to Active (invite acceptance).
func (s *Store) Activate(ctx context.Context, memberID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": memberID, "status": models.MemberInvited},
		bson.M{"$set": bson.M{"status": models.MemberActive, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ActivateByContactAndTeam flips the contact's Invited row on the team
// to Active. Returns mongo.ErrNoDocuments when no Invited row exists.
func (s *Store) ActivateByContactAndTeam(ctx context.Context, contactID, teamID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"contact_id": contactID, "team_id": teamID, "status": models.MemberInvited},
		bson.M{"$set": bson.M{"status": models.MemberActive, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListByContact returns the contact's member rows, optionally filtered
// by status ("" means all).
func (s *Store) ListByContact(ctx context.Context, contactID primitive.ObjectID, status string) ([]models.Member, error) {
	filter := bson.M{"contact_id": contactID}
	if status != "" {
		filter["status"] = status
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByTeam returns a team's member rows, optionally filtered by status.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID, status string) ([]models.Member, error) {
	filter := bson.M{"team_id": teamID}
	if status != "" {
		filter["status"] = status
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Member
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountActiveByContact returns how many Active rows the contact holds.
func (s *Store) CountActiveByContact(ctx context.Context, contactID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"contact_id": contactID, "status": models.MemberActive})
}
