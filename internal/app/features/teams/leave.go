// internal/app/features/teams/leave.go
package teams

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	memberstore "github.com/xfoundry/hub/internal/app/store/members"
	participationstore "github.com/xfoundry/hub/internal/app/store/participation"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// unknownTeamID is the sentinel the dashboard sends when it cannot
// resolve which team triggered a conflict; it deactivates every Active
// member row the caller holds.
const unknownTeamID = "unknown"

// leaveRequest is the POST /api/teams/{teamID}/leave payload.
type leaveRequest struct {
	CohortID string `json:"cohortId"`
}

// HandleLeave deactivates the caller's membership.
//
// Canonical procedure: resolve the Active member row by (contact, team)
// filter, flip it to Inactive, then best-effort flip the contact's
// Active participation rows. The participation sync failing is logged
// and non-fatal; leaving must not fail on the secondary update.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Body is optional; a bare POST means "leave, no cohort scope".
	var req leaveRequest
	if r.ContentLength > 0 {
		if err := jsonapi.Decode(r, &req); err != nil {
			jsonapi.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rawTeamID := chi.URLParam(r, "teamID")
	if rawTeamID == unknownTeamID {
		h.leaveAll(ctx, w, contactID)
		return
	}

	teamID, err := primitive.ObjectIDFromHex(rawTeamID)
	if err != nil {
		jsonapi.Error(w, http.StatusNotFound, "team not found")
		return
	}

	members := memberstore.New(h.DB)
	member, err := members.ActiveByContactAndTeam(ctx, contactID, teamID)
	if err == memberstore.ErrNotActiveMember {
		jsonapi.Error(w, http.StatusForbidden, err.Error())
		return
	}
	if err != nil {
		h.Log.Warn("member lookup failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not leave team")
		return
	}

	if err := members.Deactivate(ctx, member.ID); err != nil {
		if err == memberstore.ErrNotActiveMember {
			// Raced with another leave; the end state is what was asked for.
			jsonapi.OK(w, map[string]any{"success": true})
			return
		}
		h.Log.Warn("member deactivate failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not leave team")
		return
	}

	h.syncParticipation(ctx, contactID, &teamID)

	jsonapi.OK(w, map[string]any{"success": true})
}

// leaveAll deactivates every Active member row for the contact.
func (h *Handler) leaveAll(ctx context.Context, w http.ResponseWriter, contactID primitive.ObjectID) {
	n, err := memberstore.New(h.DB).DeactivateAllActive(ctx, contactID)
	if err != nil {
		h.Log.Warn("deactivate all failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not leave teams")
		return
	}

	h.syncParticipation(ctx, contactID, nil)

	jsonapi.OK(w, map[string]any{"success": true, "deactivated": n})
}

// syncParticipation is the best-effort secondary status transition.
func (h *Handler) syncParticipation(ctx context.Context, contactID primitive.ObjectID, teamID *primitive.ObjectID) {
	_, err := participationstore.New(h.DB).DeactivateActiveByContact(ctx, contactID, teamID)
	if err != nil {
		h.Log.Warn("participation sync failed",
			zap.String("contact_id", contactID.Hex()), zap.Error(err))
	}
}
