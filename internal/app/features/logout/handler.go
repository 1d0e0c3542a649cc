// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/xfoundry/hub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler clears the session.
type Handler struct {
	SM  *auth.SessionManager
	Log *zap.Logger
}

func NewHandler(sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{SM: sm, Log: logger}
}

// Serve signs the contact out and redirects home.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if err := h.SM.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
