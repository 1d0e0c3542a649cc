// internal/app/features/applications/list.go
package applications

import (
	"context"
	"net/http"

	applicationstore "github.com/xfoundry/hub/internal/app/store/applications"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /api/applications: the caller's applications,
// newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	apps, err := applicationstore.New(h.DB).ListByContact(ctx, contactID)
	if err != nil {
		h.Log.Warn("application list failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not load applications")
		return
	}
	if apps == nil {
		apps = []models.Application{}
	}

	jsonapi.OK(w, map[string]any{"applications": apps})
}
