package validation

import (
	"errors"
	"fmt"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldError is a single rejected field with a human-readable message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors accumulates field errors in the order they were found.
// A non-empty Errors is returned as an error by the validators.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return strings.Join(parts, "; ")
}

// Has reports whether field already carries an error.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Messages returns every message recorded for field.
func (e Errors) Messages(field string) []string {
	var out []string
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

func (e *Errors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// AsErrors extracts validation errors from err, if any.
func AsErrors(err error) (Errors, bool) {
	var errs Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// collect turns the map returned by ozzo.ValidateStruct into an ordered
// Errors list. Anything other than field errors is returned as-is.
func collect(err error, order []string) (Errors, error) {
	if err == nil {
		return Errors{}, nil
	}

	var fieldErrs ozzo.Errors
	if !errors.As(err, &fieldErrs) {
		return nil, fmt.Errorf("failed to validate form: %w", err)
	}

	errs := Errors{}
	for _, field := range order {
		if fe, ok := fieldErrs[field]; ok && fe != nil {
			errs.Add(field, fe.Error())
		}
	}
	return errs, nil
}
