// Package validation wraps go-playground/validator with camelCase field names
// and a structured error that handlers render as the envelope's details.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError is one failed rule on one field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Error is returned when a struct fails validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", f.Field, f.Rule, f.Param))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Rule))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator validates entity structs against their validate tags.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator that reports JSON field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s. It returns *Error for rule failures and a plain error
// when s is not a validatable struct.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// Var validates a single value against a tag, e.g. Var(email, "required,email").
func (v *Validator) Var(field any, tag string) error {
	return v.v.Var(field, tag)
}

// Details extracts field errors from err, or nil when err is not a validation error.
func Details(err error) []FieldError {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
