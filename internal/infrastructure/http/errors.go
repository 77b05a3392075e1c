package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mbellec/facturx/internal/core/invoice"
)

// ErrorResponse is the standardized error envelope.
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidationResponse carries the aggregated field violations of a rejected
// form, one entry per invalid field.
type ValidationResponse struct {
	Success bool                 `json:"success"`
	Errors  []invoice.FieldError `json:"errors"`
}

// WriteError writes a standardized JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string, errs []string, log *slog.Logger) {
	writeJSON(w, statusCode, ErrorResponse{Message: message, Errors: errs}, log)
}

// WriteValidationError writes the full field-error list of a validation
// failure. The form UI relies on receiving every violation at once.
func WriteValidationError(w http.ResponseWriter, verr *invoice.ValidationError, log *slog.Logger) {
	writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{
		Success: false,
		Errors:  verr.Errors,
	}, log)
}

func writeJSON(w http.ResponseWriter, statusCode int, body any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		// The status code is already written; only log.
		if log != nil {
			log.Error("failed to encode error response", "error", err)
		}
	}
}
