package contactstore_test

import (
	"testing"

	contactstore "github.com/xfoundry/hub/internal/app/store/contacts"
	"github.com/xfoundry/hub/internal/testutil"
)

func TestUpsertBySubject_SeedsOnboardingOnInsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	store := contactstore.New(db)
	contact, err := store.UpsertBySubject(ctx, "auth0|abc", "ada@example.edu", "Ada Lovelace", "example.edu")
	if err != nil {
		t.Fatalf("UpsertBySubject: %v", err)
	}
	if !contact.Onboarding.HasStep("register") {
		t.Error("new contact should have the register step seeded")
	}

	// A second login refreshes profile fields without reseeding.
	again, err := store.UpsertBySubject(ctx, "auth0|abc", "ada@example.edu", "Ada K. Lovelace", "example.edu")
	if err != nil {
		t.Fatalf("second UpsertBySubject: %v", err)
	}
	if again.ID != contact.ID {
		t.Error("second login should reuse the same contact row")
	}
	if again.FullName != "Ada K. Lovelace" {
		t.Errorf("full name: got %q, want refreshed value", again.FullName)
	}
}

func TestUpsertBySubject_ClaimsInviteeStub(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)

	store := contactstore.New(db)
	stub, err := store.GetOrCreateByEmail(ctx, "grace@example.edu", "Grace Hopper")
	if err != nil {
		t.Fatalf("GetOrCreateByEmail: %v", err)
	}

	claimed, err := store.UpsertBySubject(ctx, "auth0|grace", "grace@example.edu", "Grace Hopper", "example.edu")
	if err != nil {
		t.Fatalf("UpsertBySubject: %v", err)
	}
	if claimed.ID != stub.ID {
		t.Error("first login should claim the invitee stub, not insert a new row")
	}
	if claimed.Subject != "auth0|grace" {
		t.Errorf("subject: got %q, want claimed subject", claimed.Subject)
	}
	if !claimed.Onboarding.HasStep("register") {
		t.Error("claimed stub should gain the register step")
	}
}

func TestAppendOnboardingStep_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")

	store := contactstore.New(db)
	for i := 0; i < 3; i++ {
		if err := store.AppendOnboardingStep(ctx, contact.ID, "selectCohort"); err != nil {
			t.Fatalf("AppendOnboardingStep: %v", err)
		}
	}

	got, err := store.GetByID(ctx, contact.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	count := 0
	for _, s := range got.Onboarding.Steps {
		if s == "selectCohort" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("selectCohort occurrences: got %d, want 1", count)
	}
}
