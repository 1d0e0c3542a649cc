package memberstore_test

import (
	"testing"

	memberstore "github.com/xfoundry/hub/internal/app/store/members"
	"github.com/xfoundry/hub/internal/domain/models"
	"github.com/xfoundry/hub/internal/testutil"
)

func TestAdd_DuplicateRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	team := fx.CreateTeam(ctx, "Analytical Engines")

	store := memberstore.New(db)
	if _, err := store.Add(ctx, team.ID, contact.ID, models.MemberRoleOwner, models.MemberActive); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Add(ctx, team.ID, contact.ID, models.MemberRoleMember, models.MemberActive); err != memberstore.ErrDuplicateMember {
		t.Errorf("second Add: got %v, want ErrDuplicateMember", err)
	}
}

func TestAdd_ReinviteAfterLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	team := fx.CreateTeam(ctx, "Analytical Engines")

	store := memberstore.New(db)
	member, err := store.Add(ctx, team.ID, contact.ID, models.MemberRoleMember, models.MemberActive)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Deactivate(ctx, member.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	// Inviting the contact back reuses the Inactive row rather than
	// tripping the duplicate guard or piling up a second row.
	reinvited, err := store.Add(ctx, team.ID, contact.ID, models.MemberRoleMember, models.MemberInvited)
	if err != nil {
		t.Fatalf("Add after leave: %v", err)
	}
	if reinvited.ID != member.ID {
		t.Errorf("reinvite row: got %s, want original row %s", reinvited.ID.Hex(), member.ID.Hex())
	}
	if reinvited.Status != models.MemberInvited {
		t.Errorf("reinvite status: got %q, want %q", reinvited.Status, models.MemberInvited)
	}

	if err := store.ActivateByContactAndTeam(ctx, contact.ID, team.ID); err != nil {
		t.Fatalf("ActivateByContactAndTeam after reinvite: %v", err)
	}
	if _, err := store.ActiveByContactAndTeam(ctx, contact.ID, team.ID); err != nil {
		t.Errorf("after rejoin: got %v, want active member", err)
	}

	all, err := store.ListByContact(ctx, contact.ID, "")
	if err != nil {
		t.Fatalf("ListByContact: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("member rows after rejoin: got %d, want 1", len(all))
	}
}

func TestDeactivate_CanonicalLeave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	team := fx.CreateTeam(ctx, "Analytical Engines")
	fx.CreateMember(ctx, team.ID, contact.ID, models.MemberRoleOwner, models.MemberActive)

	store := memberstore.New(db)

	member, err := store.ActiveByContactAndTeam(ctx, contact.ID, team.ID)
	if err != nil {
		t.Fatalf("ActiveByContactAndTeam: %v", err)
	}
	if err := store.Deactivate(ctx, member.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	// The row is gone from the active view and a second deactivate
	// reports the race.
	if _, err := store.ActiveByContactAndTeam(ctx, contact.ID, team.ID); err != memberstore.ErrNotActiveMember {
		t.Errorf("after leave: got %v, want ErrNotActiveMember", err)
	}
	if err := store.Deactivate(ctx, member.ID); err != memberstore.ErrNotActiveMember {
		t.Errorf("second Deactivate: got %v, want ErrNotActiveMember", err)
	}
}

func TestDeactivateAllActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	teamA := fx.CreateTeam(ctx, "Team A")
	teamB := fx.CreateTeam(ctx, "Team B")
	teamC := fx.CreateTeam(ctx, "Team C")
	fx.CreateMember(ctx, teamA.ID, contact.ID, models.MemberRoleOwner, models.MemberActive)
	fx.CreateMember(ctx, teamB.ID, contact.ID, models.MemberRoleMember, models.MemberActive)
	fx.CreateMember(ctx, teamC.ID, contact.ID, models.MemberRoleMember, models.MemberInvited)

	store := memberstore.New(db)
	n, err := store.DeactivateAllActive(ctx, contact.ID)
	if err != nil {
		t.Fatalf("DeactivateAllActive: %v", err)
	}
	if n != 2 {
		t.Errorf("deactivated count: got %d, want 2", n)
	}

	// The Invited row is untouched.
	invited, err := store.ListByContact(ctx, contact.ID, models.MemberInvited)
	if err != nil {
		t.Fatalf("ListByContact: %v", err)
	}
	if len(invited) != 1 {
		t.Errorf("invited rows: got %d, want 1", len(invited))
	}

	count, err := store.CountActiveByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("CountActiveByContact: %v", err)
	}
	if count != 0 {
		t.Errorf("active count after deactivate all: got %d, want 0", count)
	}
}

func TestActivateByContactAndTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	team := fx.CreateTeam(ctx, "Analytical Engines")
	fx.CreateMember(ctx, team.ID, contact.ID, models.MemberRoleMember, models.MemberInvited)

	store := memberstore.New(db)
	if err := store.ActivateByContactAndTeam(ctx, contact.ID, team.ID); err != nil {
		t.Fatalf("ActivateByContactAndTeam: %v", err)
	}
	if _, err := store.ActiveByContactAndTeam(ctx, contact.ID, team.ID); err != nil {
		t.Errorf("after activate: got %v, want active member", err)
	}
}
