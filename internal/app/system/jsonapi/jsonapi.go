// Package jsonapi holds the small encode/decode helpers shared by the
// JSON API features. Error bodies are always {"error": "..."} so the
// dashboard client has one shape to parse.
package jsonapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK encodes v as JSON with a 200.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, map[string]string{"error": msg})
}

// maxBodyBytes caps request bodies; the dashboard never sends more than
// a small form's worth of JSON.
const maxBodyBytes = 1 << 20

// ErrBadBody is returned by Decode for unparseable or oversized bodies.
var ErrBadBody = errors.New("invalid request body")

// Decode parses the request body into v.
func Decode(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return ErrBadBody
	}
	// Trailing garbage after the object is also a bad body.
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrBadBody
	}
	return nil
}
