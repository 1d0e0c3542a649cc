package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/xfoundry/hub/internal/app/system/auth"
	"github.com/xfoundry/hub/internal/domain/models"
)

// WithContact adds a contact to the request context for testing
// authenticated handlers. This bypasses the session middleware.
func WithContact(r *http.Request, c models.Contact) *http.Request {
	sc := &auth.SessionContact{
		ContactID:   c.ID.Hex(),
		Subject:     c.Subject,
		Name:        c.FullName,
		Email:       c.Email,
		Institution: c.Institution,
	}
	return auth.WithTestContact(r, sc)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// NewJSONRequest creates a request with a JSON string body and a contact
// in context.
func NewJSONRequest(method, target, body string, c models.Contact) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return WithContact(NewRequest(method, target, r), c)
}

// AssertStatus checks the response status code.
func AssertStatus(t interface{ Errorf(string, ...any) }, rec *httptest.ResponseRecorder, expected int) {
	if rec.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", rec.Code, expected, rec.Body.String())
	}
}

// AssertBodyContains checks if the response body contains the expected string.
func AssertBodyContains(t interface{ Errorf(string, ...any) }, rec *httptest.ResponseRecorder, expected string) {
	if !strings.Contains(rec.Body.String(), expected) {
		t.Errorf("response body %q does not contain %q", rec.Body.String(), expected)
	}
}
