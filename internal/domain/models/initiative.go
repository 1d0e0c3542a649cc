// internal/domain/models/initiative.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conflict policy values for an initiative.
//
// An exempt initiative never blocks applications; an exclusive one
// participates in the one-active-team-program rule. A record with no
// policy set falls back to legacy name matching in the conflict checker.
const (
	ConflictPolicyExempt    = "exempt"
	ConflictPolicyExclusive = "exclusive"
)

// Initiative is a named program (e.g. Xperience) that runs many cohorts.
type Initiative struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"name_ci"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	ConflictPolicy string             `bson:"conflict_policy,omitempty" json:"conflict_policy,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
