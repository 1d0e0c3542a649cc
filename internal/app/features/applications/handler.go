// internal/app/features/applications/handler.go
package applications

import (
	"github.com/xfoundry/hub/internal/app/policy/conflictpolicy"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the applications
// feature. The conflict checker runs server-side before every create so
// the invariant does not depend on the dashboard having checked first.
type Handler struct {
	DB      *mongo.Database
	Checker *conflictpolicy.Checker
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, checker *conflictpolicy.Checker, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Checker: checker, Log: logger}
}
