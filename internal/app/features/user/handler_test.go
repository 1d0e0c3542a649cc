package user_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	teamsfeature "github.com/xfoundry/hub/internal/app/features/teams"
	userfeature "github.com/xfoundry/hub/internal/app/features/user"
	"github.com/xfoundry/hub/internal/app/onboarding"
	"github.com/xfoundry/hub/internal/app/policy/conflictpolicy"
	contactstore "github.com/xfoundry/hub/internal/app/store/contacts"
	"github.com/xfoundry/hub/internal/app/system/mailer"
	"github.com/xfoundry/hub/internal/domain/models"
	"github.com/xfoundry/hub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *userfeature.Handler {
	t.Helper()
	logger := zap.NewNop()
	checker := conflictpolicy.NewChecker(db, true, logger)
	return userfeature.NewHandler(db, checker, logger)
}

func TestServeInitiativeConflicts_NoEnrollments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)

	req := testutil.NewJSONRequest("GET", "/api/user/check-initiative-conflicts?initiative=Xperience", "", contact)
	rec := httptest.NewRecorder()

	h.ServeInitiativeConflicts(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertBodyContains(t, rec, `"allowed":true`)
}

func TestServeInitiativeConflicts_BlockedByActiveProgram(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	currentIni := fx.CreateInitiative(ctx, "Xtrapreneurs", models.ConflictPolicyExclusive)
	currentCohort := fx.CreateCohort(ctx, currentIni.ID, "Team", nil)
	team := fx.CreateTeam(ctx, "Current Team", currentCohort.ID)
	teamID := team.ID
	fx.CreateParticipation(ctx, contact.ID, currentCohort.ID, &teamID, models.ParticipationActive)

	fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)

	req := testutil.NewJSONRequest("GET", "/api/user/check-initiative-conflicts?initiative=Xperience", "", contact)
	rec := httptest.NewRecorder()

	h.ServeInitiativeConflicts(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertBodyContains(t, rec, `"allowed":false`)
	testutil.AssertBodyContains(t, rec, conflictpolicy.ReasonTeamProgramConflict)
}

func TestServeInitiativeConflicts_AllowedAfterLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)
	logger := zap.NewNop()
	teamsHandler := teamsfeature.NewHandler(db, mailer.New(mailer.Config{}, logger), "http://localhost:3000", logger)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	currentIni := fx.CreateInitiative(ctx, "Xtrapreneurs", models.ConflictPolicyExclusive)
	currentCohort := fx.CreateCohort(ctx, currentIni.ID, "Team", nil)
	team := fx.CreateTeam(ctx, "Current Team", currentCohort.ID)
	fx.CreateMember(ctx, team.ID, contact.ID, models.MemberRoleOwner, models.MemberActive)
	teamID := team.ID
	fx.CreateParticipation(ctx, contact.ID, currentCohort.ID, &teamID, models.ParticipationActive)

	fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)

	req := testutil.NewJSONRequest("GET", "/api/user/check-initiative-conflicts?initiative=Xperience", "", contact)
	rec := httptest.NewRecorder()
	h.ServeInitiativeConflicts(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertBodyContains(t, rec, `"allowed":false`)

	req = testutil.NewJSONRequest("POST", "/api/teams/"+team.ID.Hex()+"/leave", "", contact)
	req = testutil.WithChiURLParam(req, "teamID", team.ID.Hex())
	rec = httptest.NewRecorder()
	teamsHandler.HandleLeave(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)

	// Leaving cleared both the member row and the participation, so the
	// same check now passes.
	req = testutil.NewJSONRequest("GET", "/api/user/check-initiative-conflicts?initiative=Xperience", "", contact)
	rec = httptest.NewRecorder()
	h.ServeInitiativeConflicts(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertBodyContains(t, rec, `"allowed":true`)
}

func TestServeInitiativeConflicts_ExemptByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	currentIni := fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)
	currentCohort := fx.CreateCohort(ctx, currentIni.ID, "Team", nil)
	team := fx.CreateTeam(ctx, "Current Team", currentCohort.ID)
	teamID := team.ID
	fx.CreateParticipation(ctx, contact.ID, currentCohort.ID, &teamID, models.ParticipationActive)

	// Xperiment is exempt even while the contact is in another program.
	fx.CreateInitiative(ctx, "Xperiment", "")

	req := testutil.NewJSONRequest("GET", "/api/user/check-initiative-conflicts?initiative=Xperiment", "", contact)
	rec := httptest.NewRecorder()

	h.ServeInitiativeConflicts(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertBodyContains(t, rec, `"allowed":true`)
}

func TestServeInitiativeConflicts_MissingParam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")

	req := testutil.NewJSONRequest("GET", "/api/user/check-initiative-conflicts", "", contact)
	rec := httptest.NewRecorder()

	h.ServeInitiativeConflicts(rec, req)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestServeOnboarding_RepairsMetadata(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	ini := fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)
	cohort := fx.CreateCohort(ctx, ini.ID, "Individual", nil)
	fx.CreateApplication(ctx, contact.ID, cohort.ID, models.ParticipationTypeIndividual)

	req := testutil.NewJSONRequest("GET", "/api/user/onboarding", "", contact)
	rec := httptest.NewRecorder()

	h.ServeOnboarding(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertBodyContains(t, rec, `"selectCohort":true`)

	// The reconciler appended the derived step to the persisted list.
	got, err := contactstore.New(db).GetByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Onboarding.HasStep(onboarding.StepSelectCohort) {
		t.Error("selectCohort should be persisted after the onboarding fetch")
	}
}

func TestHandleUpdateMetadata_CompletionStampedServerSide(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")

	req := testutil.NewJSONRequest("POST", "/api/user/metadata", `{"onboardingCompleted":true}`, contact)
	rec := httptest.NewRecorder()

	h.HandleUpdateMetadata(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)

	got, err := contactstore.New(db).GetByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Onboarding.Completed {
		t.Error("completed flag should be set")
	}
	if got.Onboarding.CompletedAt == nil {
		t.Error("completion timestamp should be stamped server-side")
	}
}

func TestHandleUpdateMetadata_StepsMergeNeverShrink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")

	req := testutil.NewJSONRequest("POST", "/api/user/metadata", `{"onboarding":["connexions"]}`, contact)
	rec := httptest.NewRecorder()

	h.HandleUpdateMetadata(rec, req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	got, err := contactstore.New(db).GetByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	// The fixture seeded register; the update added connexions.
	if !got.Onboarding.HasStep("register") || !got.Onboarding.HasStep("connexions") {
		t.Errorf("steps after merge: got %v, want register and connexions", got.Onboarding.Steps)
	}
}
