// internal/app/features/invites/accept.go
package invites

import (
	"context"
	"net/http"

	invitestore "github.com/xfoundry/hub/internal/app/store/invites"
	memberstore "github.com/xfoundry/hub/internal/app/store/members"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleAccept handles GET /invites/accept?token=<clear token>, the
// link mailed to the invitee. Redemption matches the token against the
// signed-in contact's pending invites and flips the Invited member row
// to Active.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		jsonapi.Error(w, http.StatusBadRequest, "token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	invite, err := invitestore.New(h.DB).Redeem(ctx, contactID, token)
	if err == mongo.ErrNoDocuments {
		jsonapi.Error(w, http.StatusNotFound, "invite not found or expired")
		return
	}
	if err != nil {
		h.Log.Warn("invite redeem failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not accept invite")
		return
	}

	err = memberstore.New(h.DB).ActivateByContactAndTeam(ctx, contactID, invite.TeamID)
	if err != nil && err != mongo.ErrNoDocuments {
		h.Log.Warn("member activate failed",
			zap.String("team_id", invite.TeamID.Hex()), zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not accept invite")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
