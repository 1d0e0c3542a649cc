package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateContact creates a test contact.
func (f *Fixtures) CreateContact(ctx context.Context, fullName, email string) models.Contact {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Contact{
		ID:         primitive.NewObjectID(),
		Subject:    "test|" + primitive.NewObjectID().Hex(),
		Email:      email,
		EmailCI:    text.Fold(email),
		FullName:   fullName,
		Status:     "active",
		Onboarding: models.OnboardingMetadata{Steps: []string{"register"}},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("contacts").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test contact: %v", err)
	}
	return c
}

// CreateInitiative creates a test initiative with the given conflict policy
// ("" leaves the policy unset so name-marker fallback applies).
func (f *Fixtures) CreateInitiative(ctx context.Context, name, conflictPolicy string) models.Initiative {
	f.t.Helper()

	now := time.Now().UTC()
	ini := models.Initiative{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		ConflictPolicy: conflictPolicy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("initiatives").InsertOne(ctx, ini); err != nil {
		f.t.Fatalf("failed to create test initiative: %v", err)
	}
	return ini
}

// CreateCohort creates a cohort under the initiative with the given
// participation type, in the "Applications Open" state.
func (f *Fixtures) CreateCohort(ctx context.Context, initiativeID primitive.ObjectID, participationType string, topics []string) models.Cohort {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Cohort{
		ID:                primitive.NewObjectID(),
		InitiativeID:      initiativeID,
		Status:            models.CohortStatusOpen,
		ParticipationType: participationType,
		Topics:            topics,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := f.db.Collection("cohorts").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test cohort: %v", err)
	}
	return c
}

// CreateTeam creates a test team, optionally already linked to cohorts.
func (f *Fixtures) CreateTeam(ctx context.Context, name string, cohortIDs ...primitive.ObjectID) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CohortIDs: cohortIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("teams").InsertOne(ctx, team); err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}
	return team
}

// CreateMember creates a member row joining the contact to the team.
func (f *Fixtures) CreateMember(ctx context.Context, teamID, contactID primitive.ObjectID, role, status string) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		ContactID: contactID,
		Role:      role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreateParticipation creates a participation row; teamID may be nil for
// individual enrollments.
func (f *Fixtures) CreateParticipation(ctx context.Context, contactID, cohortID primitive.ObjectID, teamID *primitive.ObjectID, status string) models.Participation {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Participation{
		ID:        primitive.NewObjectID(),
		ContactID: contactID,
		TeamID:    teamID,
		CohortID:  cohortID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("participation").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test participation: %v", err)
	}
	return p
}

// CreateApplication creates a submitted application row.
func (f *Fixtures) CreateApplication(ctx context.Context, contactID, cohortID primitive.ObjectID, participationType string) models.Application {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Application{
		ID:                primitive.NewObjectID(),
		CohortID:          cohortID,
		ContactID:         contactID,
		ParticipationType: participationType,
		RequestID:         primitive.NewObjectID().Hex(),
		Status:            "Submitted",
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := f.db.Collection("applications").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test application: %v", err)
	}
	return a
}
