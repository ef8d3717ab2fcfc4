// Package server provides the local chat gateway in front of the Hirechat API.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/hirechat/internal/api"
	"github.com/jonathan/hirechat/internal/assistant"
	"github.com/jonathan/hirechat/internal/parsing"
	"github.com/jonathan/hirechat/internal/schemas"
)

// ErrUnknownPanel indicates a chat panel other than applicant or manager
type ErrUnknownPanel struct {
	Panel string
}

func (e *ErrUnknownPanel) Error() string {
	return fmt.Sprintf("unknown chat panel: %s", e.Panel)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		unknownPanel  *ErrUnknownPanel
		validation    *ErrValidation
		schemaInvalid *schemas.ValidationError
		apiErr        *api.Error
	)

	switch {
	case errors.As(err, &unknownPanel):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &schemaInvalid), errors.Is(err, assistant.ErrEmptyMessage):
		return http.StatusBadRequest
	case errors.Is(err, parsing.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &apiErr):
		return upstreamStatus(apiErr.StatusCode)
	default:
		return http.StatusInternalServerError
	}
}

// upstreamStatus passes client errors of the remote API through and reports
// everything else as a bad gateway.
func upstreamStatus(code int) int {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusConflict:
		return code
	default:
		return http.StatusBadGateway
	}
}
