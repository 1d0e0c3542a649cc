// internal/domain/models/participation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participation statuses.
const (
	ParticipationActive   = "Active"
	ParticipationInactive = "Inactive"
)

// Participation records a contact (and, for team programs, their team)
// being enrolled in a cohort. An Active row is the authoritative signal
// that the contact is "in" a program. Business rule, not a store
// constraint: a contact holds at most one Active team-type row at a time.
type Participation struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ContactID primitive.ObjectID  `bson:"contact_id" json:"contact_id"`
	TeamID    *primitive.ObjectID `bson:"team_id,omitempty" json:"team_id,omitempty"`
	CohortID  primitive.ObjectID  `bson:"cohort_id" json:"cohort_id"`
	Status    string              `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
