// internal/domain/models/application.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application participation types as persisted.
const (
	ParticipationTypeTeam       = "Team"
	ParticipationTypeIndividual = "Individual"
)

// Application is a submitted request to join a cohort: team-based (TeamID
// set) or individual (SubmissionID from the external form provider).
//
// RequestID is a client-generated (or server-filled) uuid; creates upsert
// on (cohort_id, request_id), so a double-click or retry-after-timeout
// lands on the original row instead of minting a duplicate.
type Application struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CohortID          primitive.ObjectID  `bson:"cohort_id" json:"cohort_id"`
	ContactID         primitive.ObjectID  `bson:"contact_id" json:"contact_id"`
	TeamID            *primitive.ObjectID `bson:"team_id,omitempty" json:"team_id,omitempty"`
	SubmissionID      string              `bson:"submission_id,omitempty" json:"submission_id,omitempty"`
	FilloutFormID     string              `bson:"fillout_form_id,omitempty" json:"fillout_form_id,omitempty"`
	ParticipationType string              `bson:"participation_type" json:"participation_type"`
	RequestID         string              `bson:"request_id" json:"request_id"`
	Status            string              `bson:"status" json:"status"`

	// Xtrapreneurs-family custom form fields.
	Reason     string `bson:"reason,omitempty" json:"reason,omitempty"`
	Commitment string `bson:"commitment,omitempty" json:"commitment,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
