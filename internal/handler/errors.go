package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/escapehouses/backend/internal/domain"
	"github.com/escapehouses/backend/internal/service"
)

// ErrorDetail is the machine-readable part of an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope every error body uses:
// {"error":{"code":"not_found","message":"property not found"}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// respondJSON writes v as the JSON response body with the given status.
// Encoding failures are logged, not surfaced: by the time encoding fails the
// status line has already been written.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

// respondError writes an ErrorResponse with the given status, code, and message.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// respondServiceError maps the sentinel errors the service layer returns onto
// HTTP statuses. Anything unrecognized is an internal error: the detail goes
// to the log, and the client gets a generic message.
func respondServiceError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", resource+" not found")
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	default:
		var unavail *service.UnavailableError
		if errors.As(err, &unavail) {
			respondJSON(w, http.StatusConflict, unavail.Result)
			return
		}
		slog.Error("request failed", "resource", resource, "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.BookingService.Create: validation error: guest name is required"
// → "guest name is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
