package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"saldo/internal/core"
	"saldo/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidTemplate), errors.Is(err, core.ErrInvalidCategory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidDeleteMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError answers with the mapped status. Internal errors are
// logged and not echoed to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).LogError(r.Context(), "Request failed", err, operation, nil)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
