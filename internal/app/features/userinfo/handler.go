// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/xfoundry/hub/internal/app/system/auth"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
)

// Handler serves identity information for the current session.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Serve returns JSON with the current session's authentication status
// and identity.
//
// Response format:
//
//	{ "isAuthenticated": bool, "name": "...", "email": "...", "contactId": "..." }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	c, ok := auth.CurrentContact(r)
	if !ok {
		jsonapi.OK(w, map[string]any{
			"isAuthenticated": false,
			"name":            "",
			"email":           "",
			"contactId":       "",
		})
		return
	}

	jsonapi.OK(w, map[string]any{
		"isAuthenticated": true,
		"name":            c.Name,
		"email":           c.Email,
		"contactId":       c.ContactID,
		"institution":     c.Institution,
	})
}
