// Package api defines the shared HTTP response envelopes.
package api

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrorResponse is the error body every endpoint returns. Fields carries
// per-field validation detail when present.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Err builds a plain error response.
func Err(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Error: msg}
}

// MessageResponse is a minimal success body.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ValidationError converts an ozzo validation failure into a field-keyed
// error response. The bool reports whether err was a validation failure.
func ValidationError(err error) (ErrorResponse, bool) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return ErrorResponse{}, false
	}
	fields := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		fields[field] = ferr.Error()
	}
	return ErrorResponse{Error: "validation failed", Fields: fields}, true
}
