package applications_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	applicationsfeature "github.com/xfoundry/hub/internal/app/features/applications"
	"github.com/xfoundry/hub/internal/app/policy/conflictpolicy"
	applicationstore "github.com/xfoundry/hub/internal/app/store/applications"
	teamstore "github.com/xfoundry/hub/internal/app/store/teams"
	"github.com/xfoundry/hub/internal/domain/models"
	"github.com/xfoundry/hub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *applicationsfeature.Handler {
	t.Helper()
	logger := zap.NewNop()
	checker := conflictpolicy.NewChecker(db, true, logger)
	return applicationsfeature.NewHandler(db, checker, logger)
}

func TestHandleCreate_TeamApplication(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	ini := fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)
	cohort := fx.CreateCohort(ctx, ini.ID, "Team", nil)
	team := fx.CreateTeam(ctx, "Analytical Engines")
	fx.CreateMember(ctx, team.ID, contact.ID, models.MemberRoleOwner, models.MemberActive)

	body := fmt.Sprintf(`{"cohortId":%q,"teamId":%q,"requestId":"req-1"}`, cohort.ID.Hex(), team.ID.Hex())
	req := testutil.NewJSONRequest("POST", "/api/applications/create", body, contact)
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	testutil.AssertStatus(t, rec, http.StatusCreated)

	apps, err := applicationstore.New(db).ListByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("ListByContact: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("applications: got %d, want 1", len(apps))
	}
	if apps[0].ParticipationType != models.ParticipationTypeTeam {
		t.Errorf("participation type: got %q, want Team", apps[0].ParticipationType)
	}

	// A first-time team application links the team to the cohort.
	linked, err := teamstore.New(db).GetByID(ctx, team.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	found := false
	for _, id := range linked.CohortIDs {
		if id == cohort.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("team cohort links: %v does not include %s", linked.CohortIDs, cohort.ID.Hex())
	}
}

func TestHandleCreate_ReplayReturnsOriginal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	ini := fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)
	cohort := fx.CreateCohort(ctx, ini.ID, "Team", nil)
	team := fx.CreateTeam(ctx, "Analytical Engines")
	fx.CreateMember(ctx, team.ID, contact.ID, models.MemberRoleOwner, models.MemberActive)

	body := fmt.Sprintf(`{"cohortId":%q,"teamId":%q,"requestId":"req-1"}`, cohort.ID.Hex(), team.ID.Hex())

	for i, wantStatus := range []int{http.StatusCreated, http.StatusOK} {
		req := testutil.NewJSONRequest("POST", "/api/applications/create", body, contact)
		rec := httptest.NewRecorder()
		h.HandleCreate(rec, req)
		if rec.Code != wantStatus {
			t.Errorf("attempt %d: status got %d, want %d", i+1, rec.Code, wantStatus)
		}
	}

	apps, err := applicationstore.New(db).ListByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("ListByContact: %v", err)
	}
	if len(apps) != 1 {
		t.Errorf("applications after replay: got %d, want 1", len(apps))
	}
}

func TestHandleCreate_BlockedByActiveProgram(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")

	// Already active in one exclusive team program.
	currentIni := fx.CreateInitiative(ctx, "Xtrapreneurs", models.ConflictPolicyExclusive)
	currentCohort := fx.CreateCohort(ctx, currentIni.ID, "Team", nil)
	currentTeam := fx.CreateTeam(ctx, "Current Team", currentCohort.ID)
	teamID := currentTeam.ID
	fx.CreateParticipation(ctx, contact.ID, currentCohort.ID, &teamID, models.ParticipationActive)

	// Applying to a different exclusive team program.
	targetIni := fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)
	targetCohort := fx.CreateCohort(ctx, targetIni.ID, "Team", nil)
	targetTeam := fx.CreateTeam(ctx, "Target Team")
	fx.CreateMember(ctx, targetTeam.ID, contact.ID, models.MemberRoleOwner, models.MemberActive)

	body := fmt.Sprintf(`{"cohortId":%q,"teamId":%q,"requestId":"req-1"}`, targetCohort.ID.Hex(), targetTeam.ID.Hex())
	req := testutil.NewJSONRequest("POST", "/api/applications/create", body, contact)
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	// Blocked is a business result: 200 with the decision body, and no
	// application row is written.
	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertBodyContains(t, rec, `"allowed":false`)

	apps, err := applicationstore.New(db).ListByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("ListByContact: %v", err)
	}
	if len(apps) != 0 {
		t.Errorf("blocked create should write nothing, got %d rows", len(apps))
	}
}

func TestHandleCreate_CohortNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")

	body := `{"cohortId":"64a000000000000000000000","requestId":"req-1"}`
	req := testutil.NewJSONRequest("POST", "/api/applications/create", body, contact)
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)

	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestHandleCreate_XtrapreneursRequiresReasonAndCommitment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	ini := fx.CreateInitiative(ctx, "Xtrapreneurs", models.ConflictPolicyExclusive)
	cohort := fx.CreateCohort(ctx, ini.ID, "Individual", nil)

	body := fmt.Sprintf(`{"cohortId":%q,"requestId":"req-1"}`, cohort.ID.Hex())
	req := testutil.NewJSONRequest("POST", "/api/applications/create", body, contact)
	rec := httptest.NewRecorder()

	h.HandleCreate(rec, req)
	testutil.AssertStatus(t, rec, http.StatusBadRequest)

	body = fmt.Sprintf(`{"cohortId":%q,"requestId":"req-1","reason":"build things","commitment":"10 hours a week"}`, cohort.ID.Hex())
	req = testutil.NewJSONRequest("POST", "/api/applications/create", body, contact)
	rec = httptest.NewRecorder()

	h.HandleCreate(rec, req)
	testutil.AssertStatus(t, rec, http.StatusCreated)
}

func TestHandleFilloutSubmit_RequiresSubmissionID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	ini := fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)
	cohort := fx.CreateCohort(ctx, ini.ID, "Individual", nil)

	for _, body := range []string{
		fmt.Sprintf(`{"cohortId":%q,"requestId":"req-1"}`, cohort.ID.Hex()),
		fmt.Sprintf(`{"cohortId":%q,"submissionId":"   ","requestId":"req-1"}`, cohort.ID.Hex()),
	} {
		req := testutil.NewJSONRequest("POST", "/api/applications/fillout-submit", body, contact)
		rec := httptest.NewRecorder()

		h.HandleFilloutSubmit(rec, req)

		testutil.AssertStatus(t, rec, http.StatusBadRequest)
		testutil.AssertBodyContains(t, rec, "submissionId")
	}

	apps, err := applicationstore.New(db).ListByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("ListByContact: %v", err)
	}
	if len(apps) != 0 {
		t.Errorf("rejected submissions should write nothing, got %d rows", len(apps))
	}
}

func TestHandleFilloutSubmit_FailsClosedWithoutForm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	ini := fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)
	cohort := fx.CreateCohort(ctx, ini.ID, "Individual", nil)

	body := fmt.Sprintf(`{"cohortId":%q,"submissionId":"sub-1","requestId":"req-1"}`, cohort.ID.Hex())
	req := testutil.NewJSONRequest("POST", "/api/applications/fillout-submit", body, contact)
	rec := httptest.NewRecorder()

	h.HandleFilloutSubmit(rec, req)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	testutil.AssertBodyContains(t, rec, "no application form")
}
