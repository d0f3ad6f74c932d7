package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"soldi/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
// Validation problems carry their message inline so the client can show
// it next to the offending field; everything unexpected becomes an
// opaque 500 so internals never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "record not found"})
	case errors.Is(err, core.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "record already exists"})
	case errors.Is(err, core.ErrAtomicity):
		slog.ErrorContext(r.Context(), "Loan completion failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not complete the loan, nothing was changed"})
	default:
		slog.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "temporary problem, please retry"})
	}
}
