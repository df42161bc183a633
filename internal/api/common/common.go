// Package common holds response helpers shared by the API routers.
package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stacklok/index-settings-sync/internal/sources"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, ErrorResponse{Error: message}, statusCode)
}

// StatusForError maps a synchronization error to an HTTP status code
func StatusForError(err error) int {
	var unavailable *sources.RemoteUnavailableError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, sources.ErrIndexNotFound):
		return http.StatusNotFound
	case errors.As(err, &unavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err with the status StatusForError assigns to it
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorResponse(w, err.Error(), StatusForError(err))
}
