package helpers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"eventboard/internal/domain"
)

// APIError is the JSON body returned on every error response.
// swagger:model APIError
type APIError struct {
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and
// encodes data into the response body. A nil data writes the header only.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError maps err to an HTTP status via StatusForError and writes the
// APIError body with the error's message and the current timestamp.
func WriteError(w http.ResponseWriter, err error) {
	code, status, reason := StatusForError(err)
	WriteJSON(w, code, APIError{
		Status:    status,
		Reason:    reason,
		Message:   err.Error(),
		Timestamp: time.Now().Format(domain.DateTimeLayout),
	})
}

// StatusForError translates a domain error into an HTTP status code plus the
// status and reason strings carried in the error body. Unrecognized errors
// map to 500.
func StatusForError(err error) (code int, status, reason string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "The required object was not found."
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT", "For the requested operation the conditions are not met."
	case errors.Is(err, domain.ErrBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST", "Incorrectly made request."
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Unexpected error."
	}
}
