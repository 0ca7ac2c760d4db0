// Package render writes JSON bodies and maps domain errors to HTTP statuses.
package render

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	"github.com/MrJamesThe3rd/dealdesk/internal/cdn"
	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	"github.com/MrJamesThe3rd/dealdesk/internal/deal"
	"github.com/MrJamesThe3rd/dealdesk/internal/document"
	"github.com/MrJamesThe3rd/dealdesk/internal/export"
	"github.com/MrJamesThe3rd/dealdesk/internal/property"
	"github.com/MrJamesThe3rd/dealdesk/internal/task"
	"github.com/MrJamesThe3rd/dealdesk/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Message writes a JSON error body with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorResponse{Error: msg})
}

// Error picks the status for err. Unexpected errors are logged and answered
// with a static message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, deal.ErrNotFound),
		errors.Is(err, contact.ErrNotFound),
		errors.Is(err, property.ErrNotFound),
		errors.Is(err, task.ErrNotFound),
		errors.Is(err, document.ErrNotFound):
		Message(w, http.StatusNotFound, err.Error())
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, property.ErrPhotoIndex):
		Message(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, property.ErrInvalidPhoto):
		Message(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, cdn.ErrTooLarge):
		Message(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, cdn.ErrUploadRejected),
		errors.Is(err, export.ErrDownloadFailed):
		Message(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		Message(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		Message(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, deal.ErrSaveFailed):
		slog.Error("deal save failed", "path", r.URL.Path, "error", err)
		Message(w, http.StatusInternalServerError, deal.ErrSaveFailed.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		Message(w, http.StatusInternalServerError, "internal error")
	}
}
