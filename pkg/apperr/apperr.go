// Package apperr defines the domain error taxonomy for Tillpoint and its
// mapping to HTTP status codes.
//
// Business-rule violations are raised at the point of detection and travel
// unmodified to the HTTP boundary, where response.WriteError turns them into
// a {detail, type} JSON body with the status from HTTPStatus. Anything that
// is not an apperr becomes an opaque 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// Kind classifies an error for status mapping and the "type" field of the
// JSON error body.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation_error"
	KindStock        Kind = "insufficient_stock"
	KindTransition   Kind = "invalid_status_transition"
	KindConflict     Kind = "integrity_error"
	KindUnauthorized Kind = "authentication_error"
	KindInternal     Kind = "server_error"
)

// Error is the single concrete error type used across the service layer.
type Error struct {
	Kind   Kind
	Detail string
	// StatusOverride forces a specific HTTP status (e.g. a missing customer
	// referenced inside an order request maps to 400, not 404).
	StatusOverride int
	wrapped        error
}

func (e *Error) Error() string { return e.Detail }

func (e *Error) Unwrap() error { return e.wrapped }

// Is lets errors.Is match any apperr of the same kind, so tests and callers
// can write errors.Is(err, apperr.ErrInsufficientStock).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel values for errors.Is checks. The Detail on these is never shown
// to clients; real errors are built with the constructors below.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrInsufficientStock = &Error{Kind: KindStock}
	ErrInvalidTransition = &Error{Kind: KindTransition}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
)

// NotFound reports an absent entity, e.g. NotFound("Order", 42).
func NotFound(entity string, id any) *Error {
	return &Error{
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s with ID %v not found", entity, id),
	}
}

// NotFoundIn is NotFound demoted to 400, used when the missing entity is a
// referential-integrity precondition inside another operation (a customer or
// product referenced by an order request).
func NotFoundIn(detail string) *Error {
	return &Error{Kind: KindNotFound, Detail: detail, StatusOverride: http.StatusBadRequest}
}

// Validation reports malformed or out-of-range input.
func Validation(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// InsufficientStock carries product name, available and requested quantities.
func InsufficientStock(product string, available, requested int) *Error {
	return &Error{
		Kind: KindStock,
		Detail: fmt.Sprintf("Insufficient stock for product %s. Available: %d, Requested: %d",
			product, available, requested),
	}
}

// InvalidTransition reports a lifecycle operation against a non-pending order.
func InvalidTransition(action, currentStatus string) *Error {
	return &Error{
		Kind:   KindTransition,
		Detail: fmt.Sprintf("Cannot %s order with status: %s", action, currentStatus),
	}
}

// Conflict reports a uniqueness-constraint violation on the named field.
func Conflict(field string) *Error {
	return &Error{Kind: KindConflict, Detail: fmt.Sprintf("%s already exists", field)}
}

// Unauthorized reports a failed or missing authentication.
func Unauthorized(detail string) *Error {
	if detail == "" {
		detail = "Could not validate credentials"
	}
	return &Error{Kind: KindUnauthorized, Detail: detail}
}

// Internal wraps an unexpected error. The wrapped error is logged at the
// boundary; the client sees only an opaque message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Detail: "Internal server error", wrapped: err}
}

// HTTPStatus maps an error to the status code the boundary should send.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	if e.StatusOverride != 0 {
		return e.StatusOverride
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindStock, KindTransition, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// TypeOf returns the "type" field for the JSON error body.
func TypeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return string(e.Kind)
	}
	return string(KindInternal)
}

// FromDB translates driver-level errors into the taxonomy: gorm's record-not-
// found becomes NotFound for the given entity, unique-constraint violations
// become Conflict on the field named in the driver message. Other errors are
// wrapped as Internal.
func FromDB(err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(entity, id)
	}
	if field, ok := uniqueField(err); ok {
		return Conflict(field)
	}
	return Internal(err)
}

// uniqueField sniffs the constraint name out of a driver error message.
// Each supported driver phrases the violation differently; the column names
// we care about are stable across all of them.
func uniqueField(err error) (string, bool) {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique") && !strings.Contains(msg, "duplicate") {
		return "", false
	}
	for _, field := range []string{"username", "email", "sku", "barcode", "order_number", "name"} {
		if strings.Contains(msg, field) {
			return strings.ReplaceAll(field, "_", " "), true
		}
	}
	return "value", true
}
