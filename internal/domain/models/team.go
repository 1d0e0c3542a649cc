// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is a student-formed group that applies to team-based cohorts.
//
// NOTE:
//   - Member rows are not embedded; the members collection is the
//     authoritative join (one row per contact/team).
//   - CohortIDs lists the cohorts the team is enrolled in; a non-empty
//     list is the unit of "this team is already in a program".
type Team struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	NameCI      string               `bson:"name_ci" json:"name_ci"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Points      int                  `bson:"points" json:"points"`
	CohortIDs   []primitive.ObjectID `bson:"cohort_ids,omitempty" json:"cohort_ids,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
