// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig covers framework-level settings (ports, TLS,
// logging, CORS); everything specific to the hub lives here. The struct
// is passed to most lifecycle hooks, so configuration needed during
// startup, request handling, or shutdown belongs in it.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: hub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// OIDC identity provider configuration
	OIDCDomain       string // Provider tenant domain (e.g., example.us.auth0.com)
	OIDCClientID     string // OAuth2 client ID
	OIDCClientSecret string // OAuth2 client secret

	// Email/SMTP configuration (blank host disables invite mail)
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username (empty for unauthenticated relays)
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address
	MailFromName string // From display name

	// Base URL for the OIDC callback and absolute links
	BaseURL string // e.g., "https://hub.example.org" or "http://localhost:3000"

	// ConflictFailOpen selects the conflict checker's failure policy:
	// when true, record-store lookup errors allow the application
	// through instead of blocking it.
	ConflictFailOpen bool
}
