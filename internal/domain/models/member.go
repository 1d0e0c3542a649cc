// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member statuses.
const (
	MemberActive   = "Active"
	MemberInactive = "Inactive"
	MemberInvited  = "Invited"
)

// Member roles.
const (
	MemberRoleOwner  = "owner"
	MemberRoleMember = "member"
)

// Member is the join between a contact and a team.
// At most one Active row exists per (contact_id, team_id); leaving a
// team flips the row to Inactive rather than deleting it.
type Member struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID    primitive.ObjectID `bson:"team_id" json:"team_id"`
	ContactID primitive.ObjectID `bson:"contact_id" json:"contact_id"`
	Role      string             `bson:"role" json:"role"`
	Status    string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
