// internal/app/features/user/onboarding.go
package user

import (
	"context"
	"net/http"

	"github.com/xfoundry/hub/internal/app/onboarding"
	applicationstore "github.com/xfoundry/hub/internal/app/store/applications"
	contactstore "github.com/xfoundry/hub/internal/app/store/contacts"
	participationstore "github.com/xfoundry/hub/internal/app/store/participation"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeOnboarding handles GET /api/user/onboarding: the computed
// checklist, derived server-side from the record store.
//
// When the computed state shows a step complete that the persisted list
// lacks, the missing ids are appended here. The append is $addToSet, so
// concurrent loads converge on the same list.
func (h *Handler) ServeOnboarding(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	contacts := contactstore.New(h.DB)
	contact, err := contacts.GetByID(ctx, contactID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Error(w, http.StatusNotFound, "contact not found")
		return
	}
	if err != nil {
		h.Log.Warn("contact lookup failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not load onboarding")
		return
	}

	sig, err := h.onboardingSignals(ctx, contact.ID)
	if err != nil {
		h.Log.Warn("onboarding signal lookup failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not load onboarding")
		return
	}

	status := onboarding.Compute(contact.Onboarding, sig)

	for _, step := range onboarding.MissingSteps(contact.Onboarding, status) {
		if err := contacts.AppendOnboardingStep(ctx, contact.ID, step); err != nil {
			h.Log.Warn("onboarding repair failed",
				zap.String("step", step), zap.Error(err))
		}
	}

	jsonapi.OK(w, status)
}

func (h *Handler) onboardingSignals(ctx context.Context, contactID primitive.ObjectID) (onboarding.Signals, error) {
	hasApp, err := applicationstore.New(h.DB).ExistsByContact(ctx, contactID)
	if err != nil {
		return onboarding.Signals{}, err
	}
	hasPart, err := participationstore.New(h.DB).ExistsActiveByContact(ctx, contactID)
	if err != nil {
		return onboarding.Signals{}, err
	}
	return onboarding.Signals{
		HasApplication:         hasApp,
		HasActiveParticipation: hasPart,
	}, nil
}
