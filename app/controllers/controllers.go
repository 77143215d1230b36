// Package controllers maps HTTP requests onto the service and repository
// layers. Controllers own parameter parsing and the wire format; business
// rules live one layer down.
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tillworks/tillpoint/config"
)

// paramID parses the {id}-style path parameter as an unsigned integer.
func paramID(r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// pagination reads skip/limit query parameters, clamping limit to the
// configured maximum.
func pagination(r *http.Request) (skip, limit int) {
	q := r.URL.Query()

	skip, _ = strconv.Atoi(q.Get("skip"))
	if skip < 0 {
		skip = 0
	}

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = config.DefaultPageSize()
	}
	if max := config.MaxPageSize(); limit > max {
		limit = max
	}
	return skip, limit
}

func queryUint(r *http.Request, name string) uint {
	n, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}

func queryBool(r *http.Request, name string) bool {
	b, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && b
}

// queryTime parses an RFC 3339 timestamp, falling back to a bare date.
func queryTime(r *http.Request, name string) *time.Time {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	return nil
}
