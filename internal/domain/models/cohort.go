// internal/domain/models/cohort.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CohortStatusOpen marks a cohort that currently accepts applications.
const CohortStatusOpen = "Applications Open"

// Cohort is one scheduled running of an initiative.
//
// ParticipationType is a free-form string from the record store
// ("Individual", "Team", "Group Project", …); classification into
// individual vs. team-based lives in the conflict policy package.
// Cohorts are reference data: this system never mutates them.
type Cohort struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InitiativeID      primitive.ObjectID `bson:"initiative_id" json:"initiative_id"`
	ShortName         string             `bson:"short_name,omitempty" json:"short_name,omitempty"`
	Status            string             `bson:"status" json:"status"`
	ParticipationType string             `bson:"participation_type" json:"participation_type"`
	FilloutFormID     string             `bson:"fillout_form_id,omitempty" json:"fillout_form_id,omitempty"`
	Topics            []string           `bson:"topics,omitempty" json:"topics,omitempty"`
	Classes           []string           `bson:"classes,omitempty" json:"classes,omitempty"`

	StartDate *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsOpen reports whether the cohort accepts applications.
func (c Cohort) IsOpen() bool {
	return c.Status == CohortStatusOpen
}
