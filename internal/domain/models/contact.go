// internal/domain/models/contact.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is the record-store row behind an authenticated user.
//
// Subject is the identity provider's stable subject id; Email is the
// login email. A contact is provisioned on first login and read on every
// dashboard load.
type Contact struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Subject     string             `bson:"subject" json:"subject"`
	Email       string             `bson:"email" json:"email"`
	EmailCI     string             `bson:"email_ci" json:"email_ci"` // lowercase, diacritics-stripped
	FullName    string             `bson:"full_name" json:"full_name"`
	Institution string             `bson:"institution,omitempty" json:"institution,omitempty"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"`

	Onboarding OnboardingMetadata `bson:"onboarding" json:"onboarding"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// OnboardingMetadata is the per-contact onboarding state bag.
//
// Steps holds completed step ids ("register", "selectCohort",
// "connexions"). It is derived state: the authoritative signals are the
// contact's applications and active participation, and the reconciler
// repairs this list when they disagree.
type OnboardingMetadata struct {
	Steps            []string            `bson:"steps,omitempty" json:"onboarding,omitempty"`
	Completed        bool                `bson:"completed" json:"onboardingCompleted"`
	Skipped          bool                `bson:"skipped" json:"onboardingSkipped"`
	CompletedAt      *time.Time          `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	SelectedCohortID *primitive.ObjectID `bson:"selected_cohort_id,omitempty" json:"selectedCohortId,omitempty"`
}

// HasStep reports whether the step id is present in the completed list.
func (m OnboardingMetadata) HasStep(id string) bool {
	for _, s := range m.Steps {
		if s == id {
			return true
		}
	}
	return false
}
