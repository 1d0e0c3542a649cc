// internal/app/features/teams/invite.go
package teams

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	contactstore "github.com/xfoundry/hub/internal/app/store/contacts"
	invitestore "github.com/xfoundry/hub/internal/app/store/invites"
	memberstore "github.com/xfoundry/hub/internal/app/store/members"
	teamstore "github.com/xfoundry/hub/internal/app/store/teams"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/inputval"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/mailer"
	"github.com/xfoundry/hub/internal/app/system/normalize"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// inviteRequest is the POST /api/teams/{teamID}/invite payload.
type inviteRequest struct {
	Email                    string `json:"email" validate:"required,email" label:"Email"`
	Name                     string `json:"name" validate:"max=100" label:"Name"`
	Role                     string `json:"role"`
	OverrideInstitutionCheck bool   `json:"overrideInstitutionCheck"`
}

// HandleInvite invites an email address to the team: looks up or
// provisions a contact for the invitee, then creates an invite record
// and an Invited member row.
//
// An institution-domain mismatch between inviter and invitee answers
// 200 with a warning and creates nothing, unless the override flag is
// set — it warns, never blocks outright.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	inviterName, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	teamID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "teamID"))
	if err != nil {
		jsonapi.Error(w, http.StatusNotFound, "team not found")
		return
	}

	var req inviteRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = normalize.Email(req.Email)
	req.Name = normalize.Name(req.Name)
	if req.Role == "" {
		req.Role = models.MemberRoleMember
	}

	if result := inputval.Validate(req); result.HasErrors() {
		jsonapi.Error(w, http.StatusBadRequest, result.First())
		return
	}

	if !h.Invites.Check(r, contactID.Hex()) {
		jsonapi.Error(w, http.StatusTooManyRequests, "too many invites, try again later")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	members := memberstore.New(h.DB)

	// Only active members may invite.
	if _, err := members.ActiveByContactAndTeam(ctx, contactID, teamID); err != nil {
		if err == memberstore.ErrNotActiveMember {
			jsonapi.Error(w, http.StatusForbidden, err.Error())
			return
		}
		h.Log.Warn("member lookup failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not send invite")
		return
	}

	inviterDomain := authz.Institution(r)
	inviteeDomain := normalize.EmailDomain(req.Email)
	if !req.OverrideInstitutionCheck && inviterDomain != "" && inviteeDomain != inviterDomain {
		jsonapi.OK(w, map[string]any{
			"success": false,
			"warning": "institution_mismatch",
			"details": map[string]string{
				"inviterInstitution": inviterDomain,
				"inviteeInstitution": inviteeDomain,
			},
		})
		return
	}

	invitee, err := contactstore.New(h.DB).GetOrCreateByEmail(ctx, req.Email, req.Name)
	if err != nil {
		h.Log.Warn("invitee contact lookup failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not send invite")
		return
	}

	// An invitee who already holds an Active row needs no invite, and
	// must not end up with a second member row for the team.
	if _, err := members.ActiveByContactAndTeam(ctx, invitee.ID, teamID); err == nil {
		jsonapi.Error(w, http.StatusBadRequest, "contact is already an active member of this team")
		return
	} else if err != memberstore.ErrNotActiveMember {
		h.Log.Warn("invitee member lookup failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not send invite")
		return
	}

	token := uuid.NewString()
	invite, err := invitestore.New(h.DB).Create(ctx, teamID, contactID, invitee.ID, req.Email, req.Role, token)
	if err == invitestore.ErrDuplicateInvite {
		jsonapi.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.Log.Warn("invite create failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not send invite")
		return
	}

	if _, err := members.Add(ctx, teamID, invitee.ID, req.Role, models.MemberInvited); err != nil && err != memberstore.ErrDuplicateMember {
		h.Log.Warn("invited member row create failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not send invite")
		return
	}

	h.sendInviteEmail(teamID, inviterName, req.Email, token)

	jsonapi.Write(w, http.StatusCreated, map[string]any{"success": true, "invite": invite})
}

// sendInviteEmail mails the accept link. Delivery is best-effort: the
// invite record already exists, and a pending invite can be re-sent.
func (h *Handler) sendInviteEmail(teamID primitive.ObjectID, inviterName, email, token string) {
	if !h.Mail.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Medium())
	defer cancel()

	team, err := teamstore.New(h.DB).GetByID(ctx, teamID)
	if err != nil {
		h.Log.Warn("team lookup for invite email failed", zap.Error(err))
		return
	}

	msg := mailer.BuildInviteEmail(email, mailer.InviteEmailData{
		SiteName:    "xFoundry Hub",
		TeamName:    team.Name,
		InviterName: inviterName,
		AcceptLink:  h.BaseURL + "/invites/accept?token=" + token,
		ExpiresIn:   "14 days",
	})
	if err := h.Mail.Send(msg); err != nil {
		h.Log.Warn("invite email send failed", zap.String("to", email), zap.Error(err))
	}
}
