// internal/app/features/applications/fillout.go
package applications

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	applicationstore "github.com/xfoundry/hub/internal/app/store/applications"
	cohortstore "github.com/xfoundry/hub/internal/app/store/cohorts"
	"github.com/xfoundry/hub/internal/app/system/authz"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/normalize"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"github.com/xfoundry/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// filloutRequest is the POST /api/applications/fillout-submit payload,
// sent when the embedded form provider reports a completed submission.
type filloutRequest struct {
	CohortID     string `json:"cohortId"`
	SubmissionID string `json:"submissionId"`
	RequestID    string `json:"requestId"`
}

// HandleFilloutSubmit records an individual application for a cohort
// whose intake runs through an embedded external form. A cohort with no
// form configured is rejected rather than silently accepted.
func (h *Handler) HandleFilloutSubmit(w http.ResponseWriter, r *http.Request) {
	_, contactID, ok := authz.ContactCtx(r)
	if !ok {
		jsonapi.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req filloutRequest
	if err := jsonapi.Decode(r, &req); err != nil {
		jsonapi.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cohortID, err := primitive.ObjectIDFromHex(normalize.QueryParam(req.CohortID))
	if err != nil {
		jsonapi.Error(w, http.StatusBadRequest, "invalid cohort id")
		return
	}

	submissionID := normalize.QueryParam(req.SubmissionID)
	if submissionID == "" {
		jsonapi.Error(w, http.StatusBadRequest, "submissionId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	detail, err := cohortstore.New(h.DB).GetDetail(ctx, cohortID)
	if err == mongo.ErrNoDocuments {
		jsonapi.Error(w, http.StatusNotFound, "cohort not found")
		return
	}
	if err != nil {
		h.Log.Warn("cohort lookup failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not record application")
		return
	}

	if detail.Cohort.FilloutFormID == "" {
		jsonapi.Error(w, http.StatusBadRequest, "cohort has no application form configured")
		return
	}

	decision := h.Checker.CheckCohort(ctx, contactID, detail, nil)
	if !decision.Allowed {
		jsonapi.OK(w, decision)
		return
	}

	app := models.Application{
		CohortID:          cohortID,
		ContactID:         contactID,
		SubmissionID:      submissionID,
		FilloutFormID:     detail.Cohort.FilloutFormID,
		ParticipationType: models.ParticipationTypeIndividual,
		RequestID:         req.RequestID,
	}
	if app.RequestID == "" {
		app.RequestID = uuid.NewString()
	}

	result, err := applicationstore.New(h.DB).Create(ctx, app)
	if err != nil {
		h.Log.Warn("application create failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "could not record application")
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	jsonapi.Write(w, status, map[string]any{
		"success":     true,
		"application": result.Application,
		"duplicate":   result.Duplicate,
	})
}
