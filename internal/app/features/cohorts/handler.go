// internal/app/features/cohorts/handler.go
package cohorts

import (
	"context"
	"net/http"

	cohortstore "github.com/xfoundry/hub/internal/app/store/cohorts"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the cohort browse view.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

// ServeList handles GET /api/cohorts: open cohorts with their
// initiatives resolved, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	details, err := cohortstore.New(h.DB).ListOpen(ctx)
	if err != nil {
		h.Log.Warn("cohort list failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not load cohorts")
		return
	}

	jsonapi.OK(w, map[string]any{"cohorts": details})
}
