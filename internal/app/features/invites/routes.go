// internal/app/features/invites/routes.go
package invites

import (
	"github.com/go-chi/chi/v5"
	"github.com/xfoundry/hub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/accept", h.HandleAccept)
	})

	return r
}
