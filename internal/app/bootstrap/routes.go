// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	applicationsfeature "github.com/xfoundry/hub/internal/app/features/applications"
	cohortsfeature "github.com/xfoundry/hub/internal/app/features/cohorts"
	healthfeature "github.com/xfoundry/hub/internal/app/features/health"
	invitesfeature "github.com/xfoundry/hub/internal/app/features/invites"
	loginfeature "github.com/xfoundry/hub/internal/app/features/login"
	logoutfeature "github.com/xfoundry/hub/internal/app/features/logout"
	teamsfeature "github.com/xfoundry/hub/internal/app/features/teams"
	userfeature "github.com/xfoundry/hub/internal/app/features/user"
	userinfofeature "github.com/xfoundry/hub/internal/app/features/userinfo"
	"github.com/xfoundry/hub/internal/app/policy/conflictpolicy"
	"github.com/xfoundry/hub/internal/app/system/auth"
	"github.com/xfoundry/hub/internal/app/system/mailer"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. The hub mounts session-backed
// JSON API routers for each feature; the session middleware runs
// globally so the current contact is available via auth.CurrentContact.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.HubMongoDatabase
	checker := conflictpolicy.NewChecker(db, appCfg.ConflictFailOpen, logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(sessionMgr.LoadSessionContact)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.HubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr,
		appCfg.OIDCDomain, appCfg.OIDCClientID, appCfg.OIDCClientSecret, appCfg.BaseURL, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Mailed invite links land here
	invitesHandler := invitesfeature.NewHandler(db, logger)
	r.Mount("/invites", invitesfeature.Routes(invitesHandler, sessionMgr))

	// JSON API
	r.Mount("/api/userinfo", userinfofeature.Routes(userinfofeature.NewHandler()))

	cohortsHandler := cohortsfeature.NewHandler(db, logger)
	r.Mount("/api/cohorts", cohortsfeature.Routes(cohortsHandler, sessionMgr))

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger)

	teamsHandler := teamsfeature.NewHandler(db, mail, appCfg.BaseURL, logger)
	r.Mount("/api/teams", teamsfeature.Routes(teamsHandler, sessionMgr))

	applicationsHandler := applicationsfeature.NewHandler(db, checker, logger)
	r.Mount("/api/applications", applicationsfeature.Routes(applicationsHandler, sessionMgr))

	userHandler := userfeature.NewHandler(db, checker, logger)
	r.Mount("/api/user", userfeature.Routes(userHandler, sessionMgr))

	return r, nil
}
