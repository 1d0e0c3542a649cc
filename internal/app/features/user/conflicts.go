// internal/app/features/user/conflicts.go
package user

import (
	"context"
	"net/http"

	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/normalize"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
)

// ServeInitiativeConflicts handles
// GET /api/user/check-initiative-conflicts?initiative=<name>.
//
// The decision is advisory for the dashboard's pre-flight dialog; the
// create endpoints re-check before persisting anything.
func (h *Handler) ServeInitiativeConflicts(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	name := normalize.QueryParam(r.URL.Query().Get("initiative"))
	if name == "" {
		jsonapi.Error(w, http.StatusBadRequest, "initiative is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	jsonapi.OK(w, h.Checker.CheckInitiative(ctx, contactID, name))
}
