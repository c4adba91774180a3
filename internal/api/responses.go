package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "lovelace/backend/internal/errors"
)

// This file contains shared DTOs for API responses and helpers for
// sending consistent HTTP responses.

// DataResponse wraps successful payloads, matching the wire shape
// {"data": ...} used by every read endpoint.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// MessageResponse is the generic status/error shape {"message": ...}.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithError maps business-layer errors to HTTP status codes and a
// uniform JSON body. Unauthorized responses carry no detail beyond the
// generic message, and malformed-body failures deliberately map to a
// generic 500 rather than a 400: clients of this API treat any unparsable
// submission the same as a server fault.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Chat not found"
	default:
		statusCode = http.StatusInternalServerError
		message = "Server error"
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)
	respondWithJSON(w, statusCode, MessageResponse{Message: message})
}

// respondWithJSON marshals a payload and writes it with the given status.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
