// Package response writes the JSON envelope shared by handlers and middleware.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/inkwell-studio/atelier/pkg/orm"
)

// Envelope is the body of every API response. Failures carry Error; a 422
// adds per-field Errors.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Status: http.StatusCreated, Data: data})
}

// Error sends {"status": status, "error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Status: status, Error: message})
}

// ValidationError sends a 422 with a field → message map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, Envelope{
		Status: http.StatusUnprocessableEntity,
		Error:  "Validation failed",
		Errors: errs,
	})
}

// Paginated sends {items, pagination} as data.
func Paginated(w http.ResponseWriter, items any, p orm.Pagination) {
	Success(w, map[string]any{"items": items, "pagination": p})
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}
