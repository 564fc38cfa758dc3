// Package server provides the HTTP API for the mood agent.
package server

import (
	"errors"
	"net/http"

	"github.com/daniel/moodcine/internal/session"
)

// ErrSessionNotFound indicates the session does not exist or was evicted.
var ErrSessionNotFound = errors.New("session not found")

// ErrTokenMismatch indicates the presented token belongs to a different session.
var ErrTokenMismatch = errors.New("token does not match session")

// HTTPStatus maps an error to the HTTP status code for its response.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, session.ErrMovieNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTokenMismatch):
		return http.StatusForbidden
	case errors.Is(err, session.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
