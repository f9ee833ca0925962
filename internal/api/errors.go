package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/irrigation-dashboard/internal/credentials"
	"github.com/nerrad567/irrigation-dashboard/internal/device"
	"github.com/nerrad567/irrigation-dashboard/internal/session"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeNotConnected = "not_connected"
	ErrCodeInternal     = "internal_error"
	ErrCodeValidation   = "validation_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeCoreError maps a core error to a response.
func writeCoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, credentials.ErrConfigInvalid),
		errors.Is(err, device.ErrInvalidSchedule),
		errors.Is(err, device.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, device.ErrUnknownActuator):
		writeError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, session.ErrNotConnected):
		writeError(w, http.StatusConflict, ErrCodeNotConnected, err.Error())
	default:
		writeInternalError(w, err.Error())
	}
}
