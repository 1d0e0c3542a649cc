// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/xfoundry/hub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactCtx returns the caller's name, contact ObjectID, and a found
// flag. If no contact is present in context or the stored id is
// malformed, it returns "", NilObjectID, false. Callers can trust that
// ok=true means a valid, authenticated contact with a valid ObjectID.
func ContactCtx(r *http.Request) (name string, contactID primitive.ObjectID, ok bool) {
	c, ok := auth.CurrentContact(r)
	if !ok {
		return "", primitive.NilObjectID, false
	}
	contactID, err := primitive.ObjectIDFromHex(c.ContactID)
	if err != nil {
		// Malformed contact id in session - fail closed.
		return "", primitive.NilObjectID, false
	}
	return c.Name, contactID, true
}

// Institution returns the caller's institution domain ("" if signed out
// or not set). Used for the invite institution-mismatch warning.
func Institution(r *http.Request) string {
	c, ok := auth.CurrentContact(r)
	if !ok {
		return ""
	}
	return c.Institution
}

// Email returns the caller's login email ("" if signed out).
func Email(r *http.Request) string {
	c, ok := auth.CurrentContact(r)
	if !ok {
		return ""
	}
	return c.Email
}
