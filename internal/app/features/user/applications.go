// internal/app/features/user/applications.go
package user

import (
	"context"
	"net/http"

	applicationstore "github.com/xfoundry/hub/internal/app/store/applications"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeApplicationCheck handles GET /api/user/check-application: whether
// the contact has submitted any application.
func (h *Handler) ServeApplicationCheck(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	has, err := applicationstore.New(h.DB).ExistsByContact(ctx, contactID)
	if err != nil {
		h.Log.Warn("application check failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not check applications")
		return
	}

	jsonapi.OK(w, map[string]any{"hasApplication": has})
}
