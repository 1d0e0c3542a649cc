// internal/app/features/user/metadata.go
package user

import (
	"context"
	"net/http"
	"time"

	contactstore "github.com/xfoundry/hub/internal/app/store/contacts"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// metadataRequest is the POST /api/user/metadata payload. Pointer fields
// distinguish "leave unchanged" from an explicit false.
type metadataRequest struct {
	Completed        *bool    `json:"onboardingCompleted"`
	Skipped          *bool    `json:"onboardingSkipped"`
	Steps            []string `json:"onboarding"`
	SelectedCohortID *string  `json:"selectedCohortId"`
}

// ServeMetadata handles GET /api/user/metadata.
func (h *Handler) ServeMetadata(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	contact, err := contactstore.New(h.DB).GetByID(ctx, contactID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Error(w, http.StatusNotFound, "contact not found")
		return
	}
	if err != nil {
		h.Log.Warn("contact lookup failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not load metadata")
		return
	}

	jsonapi.OK(w, contact.Onboarding)
}

// HandleUpdateMetadata handles POST /api/user/metadata: a partial merge
// into the onboarding bag. Completion is stamped server-side the moment
// the flag flips true; the client never supplies the timestamp.
func (h *Handler) HandleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req metadataRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Error(w, http.StatusBadRequest, "invalid request body")
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
		jsonapi.Error(w, http.StatusInternalServerError, "could not update metadata")
		return
	}

	meta := contact.Onboarding

	if req.Steps != nil {
		// Merge, never shrink: steps already recorded stay recorded.
		for _, step := range req.Steps {
			if !meta.HasStep(step) {
				meta.Steps = append(meta.Steps, step)
			}
		}
	}
	if req.Skipped != nil {
		meta.Skipped = *req.Skipped
	}
	if req.Completed != nil {
		if *req.Completed && !meta.Completed {
			now := time.Now().UTC()
			meta.CompletedAt = &now
		}
		meta.Completed = *req.Completed
	}
	if req.SelectedCohortID != nil {
		if *req.SelectedCohortID == "" {
			meta.SelectedCohortID = nil
		} else {
			oid, err := primitive.ObjectIDFromHex(*req.SelectedCohortID)
			if err != nil {
				jsonapi.Error(w, http.StatusBadRequest, "invalid cohort id")
				return
			}
			meta.SelectedCohortID = &oid
		}
	}

	if err := contacts.SetOnboarding(ctx, contactID, meta); err != nil {
		h.Log.Warn("metadata update failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not update metadata")
		return
	}

	jsonapi.OK(w, meta)
}
