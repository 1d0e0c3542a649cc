// internal/app/features/teams/create.go
package teams

import (
	"context"
	"net/http"

	memberstore "github.com/xfoundry/hub/internal/app/store/members"
	teamstore "github.com/xfoundry/hub/internal/app/store/teams"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/htmlsanitize"
	"github.com/xfoundry/hub/internal/app/system/inputval"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/normalize"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// createTeamRequest is the POST /api/teams payload.
type createTeamRequest struct {
	Name        string `json:"name" validate:"required,max=50" label:"Name"`
	Description string `json:"description" validate:"max=500" label:"Description"`
	CohortID    string `json:"cohortId"`
}

// HandleCreate creates a team and makes the caller its first Active
// member. With cohortId set (application flow), the new team is linked
// to the cohort so the flow can chain straight into team selection.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createTeamRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = htmlsanitize.Strict(normalize.Name(req.Name))
	req.Description = htmlsanitize.Strict(normalize.QueryParam(req.Description))

	if result := inputval.Validate(req); result.HasErrors() {
		jsonapi.Error(w, http.StatusBadRequest, result.First())
		return
	}

	var cohortID *primitive.ObjectID
	if req.CohortID != "" {
		oid, err := primitive.ObjectIDFromHex(req.CohortID)
		if err != nil {
			jsonapi.Error(w, http.StatusBadRequest, "invalid cohort id")
			return
		}
		cohortID = &oid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	team, err := teamstore.New(h.DB).Create(ctx, models.Team{
		Name:        req.Name,
		Description: req.Description,
	})
	if err == teamstore.ErrDuplicateTeamName {
		jsonapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Warn("team create failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not create team")
		return
	}

	_, err = memberstore.New(h.DB).Add(ctx, team.ID, contactID, models.MemberRoleOwner, models.MemberActive)
	if err != nil {
		h.Log.Error("owner member row create failed",
			zap.String("team_id", team.ID.Hex()), zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not create team")
		return
	}

	if cohortID != nil {
		if err := teamstore.New(h.DB).LinkCohort(ctx, team.ID, *cohortID); err != nil {
			// The team exists and is usable; the flow re-links on apply.
			h.Log.Warn("cohort link failed",
				zap.String("team_id", team.ID.Hex()),
				zap.String("cohort_id", cohortID.Hex()),
				zap.Error(err))
		}
	}

	jsonapi.Write(w, http.StatusCreated, map[string]any{"success": true, "team": team})
}
