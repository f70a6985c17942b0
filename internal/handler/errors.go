package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ibarry/covoiturage/internal/domain"
)

// errorDetail is the machine-readable error payload.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse is the envelope every error body uses.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto the HTTP status and error code the
// API contract promises. Unexpected errors become an opaque 500 — the
// details go to the log, never to the client.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{"validation_error", unwrapMessage(err)}})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{errorDetail{"not_found", unwrapMessage(err)}})
	case errors.Is(err, domain.ErrTripFull):
		writeJSON(w, http.StatusConflict, errorResponse{errorDetail{"trip_full", "no seats left on this trip"}})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{errorDetail{"conflict", unwrapMessage(err)}})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{errorDetail{"forbidden", "you do not own this trip"}})
	default:
		log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{errorDetail{"internal_error", "internal server error"}})
	}
}

// writeRequestError rejects a request before it reaches the service layer
// (malformed body, bad path parameter).
func writeRequestError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{errorDetail{"validation_error", message}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.TripService.Publish: validation error: origin is
// required" → "origin is required". Sentinel texts come from domain/errors.go.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []string{
		domain.ErrValidation.Error() + ": ",
		domain.ErrNotFound.Error() + ": ",
		domain.ErrConflict.Error() + ": ",
	} {
		if i := strings.LastIndex(msg, sentinel); i >= 0 {
			return msg[i+len(sentinel):]
		}
	}
	// Strip "service.X.Y: " prefixes when no sentinel text is embedded.
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
