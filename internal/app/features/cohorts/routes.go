// internal/app/features/cohorts/routes.go
package cohorts

import (
	"github.com/go-chi/chi/v5"
	"github.com/xfoundry/hub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
	})
	return r
}
