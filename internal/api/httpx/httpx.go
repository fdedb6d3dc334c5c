package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/debtme-backend/internal/api/validate"
	"github.com/baharkarakas/debtme-backend/internal/services"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// DecodeJSON reads a single JSON object from the body. Unknown fields are rejected.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func BadBody(w http.ResponseWriter, err error) {
	WriteError(w, http.StatusBadRequest, "bad_request", "malformed request body", err.Error())
}

// WriteServiceError maps the service error kinds onto status codes. Anything
// unrecognised is logged and reported as a 500 without detail.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var details interface{}
	var fields validate.Errs
	if errors.As(err, &fields) {
		details = fields
	}
	switch {
	case errors.Is(err, services.ErrValidation):
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error(), details)
	case errors.Is(err, services.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "unauthenticated", err.Error(), nil)
	case errors.Is(err, services.ErrPermission):
		WriteError(w, http.StatusForbidden, "permission_denied", err.Error(), nil)
	case errors.Is(err, services.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, services.ErrConflict):
		WriteError(w, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
