package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/are3ej/heavytrade/internal/equipment"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// repositoryError maps repository failures onto HTTP responses. Validation
// failures carry the specific reason back to the client; move failures tell
// the caller the partitions are in an unknown state.
func repositoryError(w http.ResponseWriter, err error) {
	var ire *equipment.InvalidRecordError
	var pme *equipment.PartialMoveError

	switch {
	case errors.Is(err, equipment.ErrUnauthorized):
		jsonError(w, http.StatusUnauthorized, "not authorized")
	case errors.As(err, &ire):
		jsonError(w, http.StatusBadRequest, ire.Error())
	case errors.Is(err, equipment.ErrNotFound):
		jsonError(w, http.StatusNotFound, "equipment not found")
	case errors.As(err, &pme):
		slog.Error("partial move", "id", pme.ID, "rolled_back", pme.RolledBack, "error", err)
		jsonError(w, http.StatusInternalServerError,
			"move failed partway; refresh both listings before retrying")
	case errors.Is(err, equipment.ErrStoreUnavailable):
		jsonError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		slog.Error("repository error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
