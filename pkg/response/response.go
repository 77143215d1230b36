// Package response writes Tillpoint's JSON wire format.
//
// Successful responses carry the entity (or list) directly, matching what a
// subsequent GET would return. Errors carry {"detail": ..., "type": ...} with
// the status code from apperr.HTTPStatus.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/logger"
)

type errorBody struct {
	Detail string            `json:"detail"`
	Type   string            `json:"type"`
	Errors map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// JSON sends data with an arbitrary status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, data)
}

// Success sends a 200 with the entity as the body.
func Success(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// Created sends a 201 with the entity as the body.
func Created(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, data)
}

// Message sends a 200 with a {"message": ...} body, optionally carrying the
// affected entity under an extra key.
func Message(w http.ResponseWriter, msg string, extra map[string]interface{}) {
	body := map[string]interface{}{"message": msg}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// Error sends a {detail, type} error body with an explicit status.
func Error(w http.ResponseWriter, status int, detail, errType string) {
	writeJSON(w, status, errorBody{Detail: detail, Type: errType})
}

// ValidationError sends a 422 with field-level errors.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{
		Detail: "Validation error",
		Type:   "validation_error",
		Errors: errs,
	})
}

// WriteError maps a domain error onto the wire. Internal errors are logged
// with full detail and returned to the caller as an opaque message; business
// errors pass through unmodified.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	detail := err.Error()

	if status == http.StatusInternalServerError {
		logger.WithCtx(r.Context()).Error("unhandled error",
			"error", err.Error(),
			"method", r.Method,
			"path", r.URL.Path,
		)
		detail = "Internal server error"
	}

	Error(w, status, detail, apperr.TypeOf(err))
}
