// internal/app/features/teams/routes.go
package teams

import (
	"github.com/go-chi/chi/v5"
	"github.com/xfoundry/hub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /api/teams requires a session.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)

		pr.Post("/{teamID}/invite", h.HandleInvite)
		pr.Post("/{teamID}/leave", h.HandleLeave)
		pr.Get("/{teamID}/cohorts", h.ServeTeamCohorts)
	})

	return r
}
