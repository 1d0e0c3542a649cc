// internal/app/features/teams/handler.go
package teams

import (
	"github.com/xfoundry/hub/internal/app/system/mailer"
	"github.com/xfoundry/hub/internal/app/system/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the teams feature.
// The per-operation handlers (list, create, invite, leave, cohorts)
// share the Mongo database, mailer, and logger through it.
type Handler struct {
	DB      *mongo.Database
	Mail    *mailer.Sender
	Invites *ratelimit.InviteLimiter
	BaseURL string
	Log     *zap.Logger
}

// NewHandler constructs a teams Handler. Called from bootstrap's
// BuildHandler once the database, mailer, and logger exist.
func NewHandler(db *mongo.Database, mail *mailer.Sender, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB:      db,
		Mail:    mail,
		Invites: ratelimit.NewInviteLimiter(),
		BaseURL: baseURL,
		Log:     logger,
	}
}
