// internal/app/features/teams/list.go
package teams

import (
	"context"
	"net/http"

	memberstore "github.com/xfoundry/hub/internal/app/store/members"
	teamstore "github.com/xfoundry/hub/internal/app/store/teams"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// teamView is a team plus the caller's member status on it.
type teamView struct {
	models.Team
	MemberStatus string `json:"member_status"`
	MemberRole   string `json:"member_role"`
}

// ServeList handles GET /api/teams: every team where the caller holds
// an Active or Invited member row.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := memberstore.New(h.DB).ListByContact(ctx, contactID, "")
	if err != nil {
		h.Log.Warn("member list failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not load teams")
		return
	}

	byTeam := make(map[primitive.ObjectID]models.Member)
	ids := make([]primitive.ObjectID, 0, len(members))
	for _, m := range members {
		if m.Status == models.MemberInactive {
			continue
		}
		byTeam[m.TeamID] = m
		ids = append(ids, m.TeamID)
	}

	teams, err := teamstore.New(h.DB).ListByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("team list failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not load teams")
		return
	}

	views := make([]teamView, 0, len(teams))
	for _, t := range teams {
		m := byTeam[t.ID]
		views = append(views, teamView{Team: t, MemberStatus: m.Status, MemberRole: m.Role})
	}

	jsonapi.OK(w, map[string]any{"teams": views})
}
