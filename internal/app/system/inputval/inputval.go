// Package inputval validates request payloads via struct tags.
//
// Handlers declare rules with `validate:"required,max=50"` tags plus an
// optional `label` tag for user-facing field names, then call Validate
// and surface Result.First() inline next to the offending field.
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their label tag (falling back to the Go name)
		// so messages read "Name is required", not "createTeamInput.Name".
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if label := fld.Tag.Get("label"); label != "" {
				return label
			}
			return fld.Name
		})
	})
	return v
}

// FieldError describes one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// Result collects validation failures for a payload.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first failure message ("" when valid).
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Validate checks the struct's `validate` tags and returns a Result.
func Validate(payload any) Result {
	err := instance().Struct(payload)
	if err == nil {
		return Result{}
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Errors: []FieldError{{Field: "", Message: err.Error()}}}
	}

	out := Result{}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), strings.TrimSpace(fe.Tag()))
	}
}
