// internal/app/store/invites/invitestore.go
package invitestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("team_invites")}
}

// ErrDuplicateInvite means a pending invite already exists for the
// (team, email) pair.
var ErrDuplicateInvite = errors.New("a pending invite for this email already exists")

// inviteTTL is how long an invite token stays redeemable.
const inviteTTL = 14 * 24 * time.Hour

// Create records an invite. The clear token is bcrypt-hashed before
// storage; the caller mails it to the invitee.
func (s *Store) Create(ctx context.Context, teamID, inviterID, inviteeID primitive.ObjectID, email, role, token string) (models.TeamInvite, error) {
	pending, err := s.HasPending(ctx, teamID, email)
	if err != nil {
		return models.TeamInvite{}, err
	}
	if pending {
		return models.TeamInvite{}, ErrDuplicateInvite
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return models.TeamInvite{}, err
	}

	now := time.Now().UTC()
	inv := models.TeamInvite{
		ID:               primitive.NewObjectID(),
		TeamID:           teamID,
		InviterContactID: inviterID,
		InviteeContactID: inviteeID,
		Email:            text.Fold(email),
		Role:             role,
		TokenHash:        hash,
		Status:           models.InvitePending,
		ExpiresAt:        now.Add(inviteTTL),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return models.TeamInvite{}, err
	}
	return inv, nil
}

// HasPending reports whether an unexpired pending invite exists for the
// (team, email) pair.
func (s *Store) HasPending(ctx context.Context, teamID primitive.ObjectID, email string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"team_id":    teamID,
		"email":      text.Fold(email),
		"status":     models.InvitePending,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Redeem matches a clear token against the invitee's pending invites and
// marks the winner accepted. Returns mongo.ErrNoDocuments when nothing
// matches (expired, revoked, or wrong token).
func (s *Store) Redeem(ctx context.Context, inviteeID primitive.ObjectID, token string) (models.TeamInvite, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"invitee_contact_id": inviteeID,
		"status":             models.InvitePending,
		"expires_at":         bson.M{"$gt": time.Now().UTC()},
	})
	if err != nil {
		return models.TeamInvite{}, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var inv models.TeamInvite
		if err := cur.Decode(&inv); err != nil {
			return models.TeamInvite{}, err
		}
		if bcrypt.CompareHashAndPassword(inv.TokenHash, []byte(token)) != nil {
			continue
		}
		_, err := s.c.UpdateOne(ctx, bson.M{"_id": inv.ID}, bson.M{
			"$set": bson.M{"status": models.InviteAccepted, "updated_at": time.Now().UTC()},
		})
		if err != nil {
			return models.TeamInvite{}, err
		}
		inv.Status = models.InviteAccepted
		return inv, nil
	}
	if err := cur.Err(); err != nil {
		return models.TeamInvite{}, err
	}
	return models.TeamInvite{}, mongo.ErrNoDocuments
}
