// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Session value keys.
const (
	isAuthKey      = "is_authenticated"
	contactIDKey   = "contact_id"
	subjectKey     = "subject"
	nameKey        = "name"
	emailKey       = "email"
	institutionKey = "institution"
)

// SessionContact is what we cache in the session and inject into
// r.Context(). ContactID is the hex record-store id of the contact.
type SessionContact struct {
	ContactID   string
	Subject     string
	Name        string
	Email       string
	Institution string
}

type ctxKey string

const currentContactKey ctxKey = "currentContact"

// SessionManager owns the cookie store and the auth middleware.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// ErrWeakSessionKey rejects session keys too short to sign cookies with.
var ErrWeakSessionKey = errors.New("session key must be at least 32 bytes")

// NewSessionManager builds a cookie-backed session manager.
// Secure should be true in production so cookies are HTTPS-only.
func NewSessionManager(key, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if len(key) < 32 {
		return nil, ErrWeakSessionKey
	}

	store := sessions.NewCookieStore([]byte(key), securecookie.GenerateRandomKey(32))
	store.Options = &sessions.Options{
		Path:     "/",
		Domain:   domain,
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// CurrentContact returns the signed-in contact and a found flag.
func CurrentContact(r *http.Request) (*SessionContact, bool) {
	c, ok := r.Context().Value(currentContactKey).(*SessionContact)
	return c, ok
}

func withContact(r *http.Request, c *SessionContact) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentContactKey, c))
}

// WithTestContact injects a contact directly into the request context.
// Test helper; bypasses the cookie store.
func WithTestContact(r *http.Request, c *SessionContact) *http.Request {
	return withContact(r, c)
}

// SignIn writes the contact into the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, c *SessionContact) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[contactIDKey] = c.ContactID
	sess.Values[subjectKey] = c.Subject
	sess.Values[nameKey] = c.Name
	sess.Values[emailKey] = c.Email
	sess.Values[institutionKey] = c.Institution
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionContact injects the contact into context if signed in.
// Installed globally so every handler can call CurrentContact.
func (sm *SessionManager) LoadSessionContact(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil {
			// Tampered or stale cookie: treat as signed out.
			sm.log.Debug("session decode failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			c := &SessionContact{
				ContactID:   getString(sess, contactIDKey),
				Subject:     getString(sess, subjectKey),
				Name:        getString(sess, nameKey),
				Email:       getString(sess, emailKey),
				Institution: getString(sess, institutionKey),
			}
			r = withContact(r, c)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects unauthenticated requests with a 401 JSON body.
// Session presence gates every API route; no record-store access happens
// before this check passes.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentContact(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
	})
}

func getString(sess *sessions.Session, key string) string {
	s, _ := sess.Values[key].(string)
	return s
}
