// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const userKey ctxKey = "user"

// SessionResolver maps a bearer token to a user login. Unknown or
// expired tokens yield an error.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// SessionAuth is a middleware that enforces bearer-token authentication.
//
// It expects an "Authorization: Bearer <token>" header and resolves the
// token to a user login through the provided resolver. The register,
// login, and cron endpoints are excluded so new users can sign in and
// the external cron trigger can fire (the cron handler carries its own
// secret check).
//
// On success the user login is stored in the request context, so it can
// be used downstream as the authenticated user ID.
func SessionAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/api/register", "/api/login", "/api/cron/send-notifications":
				// Public endpoints
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			login, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, login)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header, or
// returns an empty string.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// GetUserIDFromContext extracts the user login from the request context.
// Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
