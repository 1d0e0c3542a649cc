// internal/app/features/applications/routes.go
package applications

import (
	"github.com/go-chi/chi/v5"
	"github.com/xfoundry/hub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/create", h.HandleCreate)
		pr.Post("/fillout-submit", h.HandleFilloutSubmit)
	})

	return r
}
