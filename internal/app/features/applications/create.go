// internal/app/features/applications/create.go
package applications

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/xfoundry/hub/internal/app/policy/conflictpolicy"
	applicationstore "github.com/xfoundry/hub/internal/app/store/applications"
	cohortstore "github.com/xfoundry/hub/internal/app/store/cohorts"
	memberstore "github.com/xfoundry/hub/internal/app/store/members"
	teamstore "github.com/xfoundry/hub/internal/app/store/teams"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/normalize"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// createRequest is the POST /api/applications/create payload.
//
// RequestID is the idempotency key: the dashboard generates one per
// submission attempt so a double-click or retry-after-timeout lands on
// the same application. A missing key is filled server-side (that
// request is then only idempotent against itself).
type createRequest struct {
	CohortID          string `json:"cohortId"`
	TeamID            string `json:"teamId"`
	ParticipationType string `json:"participationType"`
	RequestID         string `json:"requestId"`

	// Xtrapreneurs-family custom form fields.
	Reason     string `json:"reason"`
	Commitment string `json:"commitment"`
}

// customFormMarker selects the initiative family that takes the
// dedicated reason/commitment form instead of the generic paths.
const customFormMarker = "xtrapreneurs"

func takesCustomForm(ini models.Initiative) bool {
	return strings.Contains(strings.ToLower(ini.Name), customFormMarker)
}

// HandleCreate persists an application after re-running the conflict
// check server-side. A blocked decision answers 200 with the decision
// body — a business result the dashboard turns into a remediation
// dialog, not an HTTP error.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cohortID, err := primitive.ObjectIDFromHex(normalize.QueryParam(req.CohortID))
	if err != nil {
		jsonapi.Error(w, http.StatusBadRequest, "invalid cohort id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	detail, err := cohortstore.New(h.DB).GetDetail(ctx, cohortID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Error(w, http.StatusNotFound, "cohort not found")
		return
	}
	if err != nil {
		h.Log.Warn("cohort lookup failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not submit application")
		return
	}

	var teamID *primitive.ObjectID
	if req.TeamID != "" {
		oid, err := primitive.ObjectIDFromHex(req.TeamID)
		if err != nil {
			jsonapi.Error(w, http.StatusBadRequest, "invalid team id")
			return
		}
		teamID = &oid
	}

	decision := h.Checker.CheckCohort(ctx, contactID, detail, teamID)
	if !decision.Allowed {
		jsonapi.OK(w, decision)
		return
	}

	app := models.Application{
		CohortID:   cohortID,
		ContactID:  contactID,
		RequestID:  req.RequestID,
		Reason:     normalize.QueryParam(req.Reason),
		Commitment: normalize.QueryParam(req.Commitment),
	}
	if app.RequestID == "" {
		app.RequestID = uuid.NewString()
	}

	switch {
	case takesCustomForm(detail.Initiative):
		// Dedicated form: reason and commitment are required.
		if app.Reason == "" || app.Commitment == "" {
			jsonapi.Error(w, http.StatusBadRequest, "reason and commitment are required")
			return
		}
		app.ParticipationType = models.ParticipationTypeIndividual
		if teamID != nil {
			app.ParticipationType = models.ParticipationTypeTeam
			app.TeamID = teamID
		}

	case conflictpolicy.ClassifyParticipation(detail.Cohort.ParticipationType) == conflictpolicy.KindTeam:
		if teamID == nil {
			jsonapi.Error(w, http.StatusBadRequest, "team id is required for team cohorts")
			return
		}
		// Only active members may apply on a team's behalf.
		if _, err := memberstore.New(h.DB).ActiveByContactAndTeam(ctx, contactID, *teamID); err != nil {
			if err == memberstore.ErrNotActiveMember {
				jsonapi.Error(w, http.StatusForbidden, err.Error())
				return
			}
			h.Log.Warn("member lookup failed", zap.Error(err))
			jsonapi.Error(w, http.StatusInternalServerError, "could not submit application")
			return
		}
		app.ParticipationType = models.ParticipationTypeTeam
		app.TeamID = teamID

	default:
		// Generic individual cohorts submit through the embedded form;
		// this endpoint only records team and custom-form applications.
		jsonapi.Error(w, http.StatusBadRequest, "individual applications are submitted through the application form")
		return
	}

	result, err := applicationstore.New(h.DB).Create(ctx, app)
	if err != nil {
		h.Log.Warn("application create failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not submit application")
		return
	}

	if app.TeamID != nil && !result.Duplicate {
		if err := teamstore.New(h.DB).LinkCohort(ctx, *app.TeamID, cohortID); err != nil {
			h.Log.Warn("cohort link failed",
				zap.String("team_id", app.TeamID.Hex()), zap.Error(err))
		}
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	jsonapi.Write(w, status, map[string]any{
		"success":     true,
		"application": result.Application,
		"duplicate":   result.Duplicate,
	})
}
