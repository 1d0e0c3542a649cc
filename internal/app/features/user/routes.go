// internal/app/features/user/routes.go
package user

import (
	"github.com/go-chi/chi/v5"
	"github.com/xfoundry/hub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/check-initiative-conflicts", h.ServeInitiativeConflicts)
		pr.Get("/check-application", h.ServeApplicationCheck)
		pr.Get("/onboarding", h.ServeOnboarding)
		pr.Get("/metadata", h.ServeMetadata)
		pr.Post("/metadata", h.HandleUpdateMetadata)
	})

	return r
}
