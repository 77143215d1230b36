package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tillworks/tillpoint/pkg/apperr"
	"github.com/tillworks/tillpoint/pkg/auth"
	"github.com/tillworks/tillpoint/pkg/response"
)

// Principal is the authenticated, active user attached to a request.
type Principal struct {
	ID       uint
	Username string
	IsAdmin  bool
}

// PrincipalResolver maps a validated token subject to an active principal.
// Implemented by the user repository; returns an error for unknown or
// deactivated accounts.
type PrincipalResolver interface {
	Resolve(ctx context.Context, userID uint) (Principal, error)
}

type principalKey struct{}

// PrincipalFrom extracts the authenticated principal from ctx.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Auth returns a middleware that validates the Bearer token and resolves it
// to an active principal, rejecting the request with 401 otherwise.
func Auth(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				response.WriteError(w, r, apperr.Unauthorized("Not authenticated"))
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.WriteError(w, r, apperr.Unauthorized("Could not validate credentials"))
				return
			}

			principal, err := resolver.Resolve(r.Context(), claims.UserID)
			if err != nil {
				response.WriteError(w, r, apperr.Unauthorized("Inactive or unknown user"))
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
