// Package apperr defines the error taxonomy shared by services and handlers.
// Every failure a request can produce is one of these typed values; nothing
// in the request pipeline is allowed to panic.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound means a referenced entity is absent. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied means the actor is known but lacks privilege. Maps
	// to 403. Distinct from ErrNotFound so a denied actor cannot probe for
	// resource existence through status codes.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnauthenticated means the action requires a signed-in actor. Maps to 401.
	ErrUnauthenticated = errors.New("authentication required")
)

// FieldError is a single user-correctable problem scoped to an input field.
// An empty Field means the error applies to the payload as a whole.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationError aggregates every field problem found in one validation
// pass, so the caller can show all of them at once. Maps to 400.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Validation builds a single-field ValidationError.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// ConflictError is a uniqueness violation surfaced at commit time by the
// store. The constraint in the database is authoritative; any pre-check a
// validator did is only an optimization. Maps to 409 or 400 depending on
// the endpoint convention.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s: %s", e.Field, e.Message)
}

// Conflict builds a field-scoped ConflictError.
func Conflict(field, message string) *ConflictError {
	return &ConflictError{Field: field, Message: message}
}

// NotFoundField is a NotFound condition attributed to one input field, used
// by the token exchange where an unknown username must surface as 404 on
// the username field rather than a generic validation failure.
type NotFoundField struct {
	Field   string
	Message string
}

func (e *NotFoundField) Error() string {
	return e.Field + ": " + e.Message
}

func (e *NotFoundField) Unwrap() error { return ErrNotFound }
