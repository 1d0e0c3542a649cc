// Package normalize provides input normalization helpers shared by the
// HTTP handlers. Normalization happens once at the edge; stores assume
// already-normalized values.
package normalize

import "strings"

// Name trims whitespace and collapses internal runs of spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Email lowercases and trims an email address. Validation is separate
// (inputval); this only canonicalizes for storage and comparison.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a free-form query or form value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// EmailDomain returns the part after '@' (lowercased), or "" when the
// input does not look like an address. Used for the institution-domain
// mismatch warning on team invites.
func EmailDomain(s string) string {
	e := Email(s)
	at := strings.LastIndex(e, "@")
	if at < 0 || at == len(e)-1 {
		return ""
	}
	return e[at+1:]
}
