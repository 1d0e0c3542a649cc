// internal/domain/models/invite.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invite statuses.
const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteRevoked  = "revoked"
)

// TeamInvite records an outstanding invitation to join a team.
// TokenHash is a bcrypt hash of the token mailed to the invitee; the
// clear token is never stored.
type TeamInvite struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID           primitive.ObjectID `bson:"team_id" json:"team_id"`
	InviterContactID primitive.ObjectID `bson:"inviter_contact_id" json:"inviter_contact_id"`
	InviteeContactID primitive.ObjectID `bson:"invitee_contact_id" json:"invitee_contact_id"`
	Email            string             `bson:"email" json:"email"`
	Role             string             `bson:"role" json:"role"`
	TokenHash        []byte             `bson:"token_hash" json:"-"`
	Status           string             `bson:"status" json:"status"`
	ExpiresAt        time.Time          `bson:"expires_at" json:"expires_at"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
