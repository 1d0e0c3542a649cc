// internal/app/features/user/handler.go
package user

import (
	"github.com/xfoundry/hub/internal/app/policy/conflictpolicy"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in contact's own state: conflict queries,
// onboarding, and the metadata bag.
type Handler struct {
	DB      *mongo.Database
	Checker *conflictpolicy.Checker
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, checker *conflictpolicy.Checker, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Checker: checker, Log: logger}
}
