package teams_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	teamsfeature "github.com/xfoundry/hub/internal/app/features/teams"
	memberstore "github.com/xfoundry/hub/internal/app/store/members"
	participationstore "github.com/xfoundry/hub/internal/app/store/participation"
	"github.com/xfoundry/hub/internal/app/system/mailer"
	"github.com/xfoundry/hub/internal/domain/models"
	"github.com/xfoundry/hub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, db *mongo.Database) *teamsfeature.Handler {
	t.Helper()
	logger := zap.NewNop()
	// Empty SMTP host: invite mail is skipped in tests.
	return teamsfeature.NewHandler(db, mailer.New(mailer.Config{}, logger), "http://localhost:3000", logger)
}

func TestHandleLeave_DeactivatesMemberAndParticipation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	ini := fx.CreateInitiative(ctx, "Xperience", models.ConflictPolicyExclusive)
	cohort := fx.CreateCohort(ctx, ini.ID, "Team", nil)
	team := fx.CreateTeam(ctx, "Analytical Engines", cohort.ID)
	fx.CreateMember(ctx, team.ID, contact.ID, models.MemberRoleOwner, models.MemberActive)
	teamID := team.ID
	fx.CreateParticipation(ctx, contact.ID, cohort.ID, &teamID, models.ParticipationActive)

	req := testutil.NewJSONRequest("POST", "/api/teams/"+team.ID.Hex()+"/leave", "", contact)
	req = testutil.WithChiURLParam(req, "teamID", team.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleLeave(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)

	if _, err := memberstore.New(db).ActiveByContactAndTeam(ctx, contact.ID, team.ID); err != memberstore.ErrNotActiveMember {
		t.Errorf("member after leave: got %v, want ErrNotActiveMember", err)
	}
	parts, err := participationstore.New(db).ListActiveByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("ListActiveByContact: %v", err)
	}
	if len(parts) != 0 {
		t.Errorf("active participation after leave: got %d rows, want 0", len(parts))
	}
}

func TestHandleLeave_NotAMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	team := fx.CreateTeam(ctx, "Analytical Engines")

	req := testutil.NewJSONRequest("POST", "/api/teams/"+team.ID.Hex()+"/leave", "", contact)
	req = testutil.WithChiURLParam(req, "teamID", team.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleLeave(rec, req)

	testutil.AssertStatus(t, rec, http.StatusForbidden)
}

func TestHandleLeave_UnknownTeamDeactivatesAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	teamA := fx.CreateTeam(ctx, "Team A")
	teamB := fx.CreateTeam(ctx, "Team B")
	fx.CreateMember(ctx, teamA.ID, contact.ID, models.MemberRoleOwner, models.MemberActive)
	fx.CreateMember(ctx, teamB.ID, contact.ID, models.MemberRoleMember, models.MemberActive)

	req := testutil.NewJSONRequest("POST", "/api/teams/unknown/leave", "", contact)
	req = testutil.WithChiURLParam(req, "teamID", "unknown")
	rec := httptest.NewRecorder()

	h.HandleLeave(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)

	count, err := memberstore.New(db).CountActiveByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("CountActiveByContact: %v", err)
	}
	if count != 0 {
		t.Errorf("active memberships after leave-all: got %d, want 0", count)
	}
}

func TestHandleLeave_Unauthenticated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newTestHandler(t, db)

	req := testutil.NewRequest("POST", "/api/teams/unknown/leave", nil)
	req = testutil.WithChiURLParam(req, "teamID", "unknown")
	rec := httptest.NewRecorder()

	h.HandleLeave(rec, req)

	testutil.AssertStatus(t, rec, http.StatusUnauthorized)
}

func TestHandleInvite_InstitutionMismatchWarns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	contact.Institution = "example.edu"
	team := fx.CreateTeam(ctx, "Analytical Engines")
	fx.CreateMember(ctx, team.ID, contact.ID, models.MemberRoleOwner, models.MemberActive)

	body := `{"email":"bob@other.edu","name":"Bob"}`
	req := testutil.NewJSONRequest("POST", "/api/teams/"+team.ID.Hex()+"/invite", body, contact)
	req = testutil.WithChiURLParam(req, "teamID", team.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleInvite(rec, req)

	testutil.AssertStatus(t, rec, http.StatusOK)
	testutil.AssertBodyContains(t, rec, "institution_mismatch")
}

func TestHandleInvite_ReinviteAfterLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	owner := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	bob := fx.CreateContact(ctx, "Bob", "bob@other.edu")
	team := fx.CreateTeam(ctx, "Analytical Engines")
	fx.CreateMember(ctx, team.ID, owner.ID, models.MemberRoleOwner, models.MemberActive)

	members := memberstore.New(db)
	bobRow, err := members.Add(ctx, team.ID, bob.ID, models.MemberRoleMember, models.MemberActive)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := members.Deactivate(ctx, bobRow.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	body := `{"email":"bob@other.edu","name":"Bob","overrideInstitutionCheck":true}`
	req := testutil.NewJSONRequest("POST", "/api/teams/"+team.ID.Hex()+"/invite", body, owner)
	req = testutil.WithChiURLParam(req, "teamID", team.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleInvite(rec, req)

	testutil.AssertStatus(t, rec, http.StatusCreated)

	// Acceptance brings the old row back to Active.
	if err := members.ActivateByContactAndTeam(ctx, bob.ID, team.ID); err != nil {
		t.Fatalf("ActivateByContactAndTeam: %v", err)
	}
	if _, err := members.ActiveByContactAndTeam(ctx, bob.ID, team.ID); err != nil {
		t.Errorf("after rejoin: got %v, want active member", err)
	}
}

func TestHandleInvite_ActiveMemberRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	owner := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	bob := fx.CreateContact(ctx, "Bob", "bob@other.edu")
	team := fx.CreateTeam(ctx, "Analytical Engines")
	fx.CreateMember(ctx, team.ID, owner.ID, models.MemberRoleOwner, models.MemberActive)
	fx.CreateMember(ctx, team.ID, bob.ID, models.MemberRoleMember, models.MemberActive)

	body := `{"email":"bob@other.edu","name":"Bob","overrideInstitutionCheck":true}`
	req := testutil.NewJSONRequest("POST", "/api/teams/"+team.ID.Hex()+"/invite", body, owner)
	req = testutil.WithChiURLParam(req, "teamID", team.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleInvite(rec, req)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
	testutil.AssertBodyContains(t, rec, "already an active member")
}

func TestHandleInvite_OverrideCreatesInvite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := newTestHandler(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	contact.Institution = "example.edu"
	team := fx.CreateTeam(ctx, "Analytical Engines")
	fx.CreateMember(ctx, team.ID, contact.ID, models.MemberRoleOwner, models.MemberActive)

	body := `{"email":"bob@other.edu","name":"Bob","overrideInstitutionCheck":true}`
	req := testutil.NewJSONRequest("POST", "/api/teams/"+team.ID.Hex()+"/invite", body, contact)
	req = testutil.WithChiURLParam(req, "teamID", team.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleInvite(rec, req)

	testutil.AssertStatus(t, rec, http.StatusCreated)

	// A second identical invite hits the pending-invite guard.
	req = testutil.NewJSONRequest("POST", "/api/teams/"+team.ID.Hex()+"/invite", body, contact)
	req = testutil.WithChiURLParam(req, "teamID", team.ID.Hex())
	rec = httptest.NewRecorder()

	h.HandleInvite(rec, req)

	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}
