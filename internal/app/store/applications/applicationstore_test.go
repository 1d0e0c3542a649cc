package applicationstore_test

import (
	"testing"

	applicationstore "github.com/xfoundry/hub/internal/app/store/applications"
	"github.com/xfoundry/hub/internal/domain/models"
	"github.com/xfoundry/hub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreate_IdempotentOnRequestID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	cohortID := primitive.NewObjectID()

	store := applicationstore.New(db)
	app := models.Application{
		CohortID:          cohortID,
		ContactID:         contact.ID,
		ParticipationType: models.ParticipationTypeIndividual,
		RequestID:         "req-1",
	}

	first, err := store.Create(ctx, app)
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if first.Duplicate {
		t.Error("first create should not report duplicate")
	}

	second, err := store.Create(ctx, app)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if !second.Duplicate {
		t.Error("replayed create should report duplicate")
	}
	if second.Application.ID != first.Application.ID {
		t.Error("replay should return the original application row")
	}

	apps, err := store.ListByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("ListByContact: %v", err)
	}
	if len(apps) != 1 {
		t.Errorf("application rows: got %d, want 1", len(apps))
	}
}

func TestCreate_DistinctRequestIDsInsertBoth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")
	cohortID := primitive.NewObjectID()

	store := applicationstore.New(db)
	for _, reqID := range []string{"req-1", "req-2"} {
		_, err := store.Create(ctx, models.Application{
			CohortID:          cohortID,
			ContactID:         contact.ID,
			ParticipationType: models.ParticipationTypeIndividual,
			RequestID:         reqID,
		})
		if err != nil {
			t.Fatalf("Create %s: %v", reqID, err)
		}
	}

	apps, err := store.ListByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("ListByContact: %v", err)
	}
	if len(apps) != 2 {
		t.Errorf("application rows: got %d, want 2", len(apps))
	}
}

func TestExistsByContact(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	contact := fx.CreateContact(ctx, "Ada Lovelace", "ada@example.edu")

	store := applicationstore.New(db)
	has, err := store.ExistsByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("ExistsByContact: %v", err)
	}
	if has {
		t.Error("contact without applications should report false")
	}

	fx.CreateApplication(ctx, contact.ID, primitive.NewObjectID(), models.ParticipationTypeIndividual)

	has, err = store.ExistsByContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("ExistsByContact: %v", err)
	}
	if !has {
		t.Error("contact with an application should report true")
	}
}
