// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	contactstore "github.com/xfoundry/hub/internal/app/store/contacts"
	"github.com/xfoundry/hub/internal/app/system/auth"
	"github.com/xfoundry/hub/internal/app/system/jsonapi"
	"github.com/xfoundry/hub/internal/app/system/normalize"
	"github.com/xfoundry/hub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Handler runs the authorization-code flow against the identity
// provider and establishes the session.
type Handler struct {
	DB     *mongo.Database
	SM     *auth.SessionManager
	OAuth  *oauth2.Config
	Domain string // provider domain, e.g. xfoundry.us.auth0.com
	Log    *zap.Logger
}

// NewHandler constructs the login handler. The oauth2 endpoints follow
// the provider's domain; RedirectURL must match the registered callback.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, domain, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		DB: db,
		SM: sm,
		OAuth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/login/callback",
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://" + domain + "/authorize",
				TokenURL: "https://" + domain + "/oauth/token",
			},
		},
		Domain: domain,
		Log:    logger,
	}
}

const stateCookie = "hub-login-state"

// ServeLogin starts the code flow: random state in a short-lived cookie,
// then redirect to the provider.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/login",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusSeeOther)
}

// profile is the subset of the provider's userinfo response we use.
type profile struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// ServeCallback finishes the code flow: verify state, exchange the code,
// fetch the profile, provision the contact, sign in.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		jsonapi.Error(w, http.StatusBadRequest, "login state mismatch")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	token, err := h.OAuth.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		h.Log.Warn("code exchange failed", zap.Error(err))
		jsonapi.Error(w, http.StatusBadGateway, "login failed")
		return
	}

	prof, err := h.fetchProfile(ctx, token)
	if err != nil {
		h.Log.Warn("userinfo fetch failed", zap.Error(err))
		jsonapi.Error(w, http.StatusBadGateway, "login failed")
		return
	}
	if prof.Subject == "" || prof.Email == "" {
		jsonapi.Error(w, http.StatusBadGateway, "identity provider returned an incomplete profile")
		return
	}

	email := normalize.Email(prof.Email)
	contact, err := contactstore.New(h.DB).UpsertBySubject(ctx, prof.Subject, email, prof.Name, normalize.EmailDomain(email))
	if err != nil {
		h.Log.Error("contact provisioning failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	err = h.SM.SignIn(w, r, &auth.SessionContact{
		ContactID:   contact.ID.Hex(),
		Subject:     contact.Subject,
		Name:        contact.FullName,
		Email:       contact.Email,
		Institution: contact.Institution,
	})
	if err != nil {
		h.Log.Error("session write failed", zap.Error(err))
		jsonapi.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) fetchProfile(ctx context.Context, token *oauth2.Token) (profile, error) {
	client := h.OAuth.Client(ctx, token)
	resp, err := client.Get("https://" + h.Domain + "/userinfo")
	if err != nil {
		return profile{}, err
	}
	defer resp.Body.Close()

	var prof profile
	if err := json.NewDecoder(resp.Body).Decode(&prof); err != nil {
		return profile{}, err
	}
	return prof, nil
}
