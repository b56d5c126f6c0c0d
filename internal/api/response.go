package api

import (
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"net/http"

	"github.com/anovak/pharmstock/internal/stock"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("error encoding response: %v", err)
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

// domainError maps a stock error kind to an HTTP status. Capacity
// failures on a send carry the per-line shortfalls as a list.
func domainError(w http.ResponseWriter, err error) {
	var insufficient *stock.InsufficientStockError
	if errors.As(err, &insufficient) {
		jsonResponse(w, http.StatusConflict, map[string]any{
			"error":  "insufficient stock",
			"errors": insufficient.Lines,
		})
		return
	}

	switch {
	case errors.Is(err, stock.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, stock.ErrAuthorization):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, stock.ErrState), errors.Is(err, stock.ErrCapacity):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, stock.ErrValidation):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("internal error", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
