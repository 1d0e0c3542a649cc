// internal/app/features/teams/cohorts.go
package teams

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	cohortstore "github.com/xfoundry/hub/internal/app/store/cohorts"
	participationstore "github.com/xfoundry/hub/internal/app/store/participation"
	teamstore "github.com/xfoundry/hub/internal/app/store/teams"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ServeTeamCohorts handles GET /api/teams/{teamID}/cohorts: the team's
// linked cohorts plus its Active participation rows.
func (h *Handler) ServeTeamCohorts(w http.ResponseWriter, r *http.Request) {
	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "teamID"))
	if err != nil {
		jsonapi.Error(w, http.StatusNotFound, "team not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	team, err := teamstore.New(h.DB).GetByID(ctx, teamID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Error(w, http.StatusNotFound, "team not found")
		return
	}
	if err != nil {
		h.Log.Warn("team lookup failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not load team cohorts")
		return
	}

	cohorts, err := cohortstore.New(h.DB).ListByIDs(ctx, team.CohortIDs)
	if err != nil {
		h.Log.Warn("cohort list failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not load team cohorts")
		return
	}

	participation, err := participationstore.New(h.DB).ListActiveByTeam(ctx, teamID)
	if err != nil {
		h.Log.Warn("participation list failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not load team cohorts")
		return
	}

	jsonapi.OK(w, map[string]any{
		"cohorts":       cohorts,
		"participation": participation,
	})
}
