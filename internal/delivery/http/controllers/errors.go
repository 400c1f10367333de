package controllers

import (
	"log/slog"
	"net/http"

	"clubdirectory/internal/delivery/http/helpers"
)

// writeServiceError maps err to an API error response. Unknown errors are logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, code, known := helpers.StatusForError(err)
	if !known {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
	helpers.WriteJSONError(w, status, code, err.Error())
}
