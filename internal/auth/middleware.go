// Package auth resolves bearer API tokens to users
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/slickclip/backend/internal/models"
)

type contextKey string

const userKey contextKey = "user"

// UserResolver looks up the user owning an API token
type UserResolver interface {
	GetByAPIToken(ctx context.Context, token string) (*models.User, error)
}

// Middleware validates the bearer API token and attaches the resolved user
// to the request context. Requests without a valid token are rejected with
// 403 before any handler runs.
func Middleware(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				// Expected format: "Bearer <token>"
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}

			if token == "" {
				respondUnauthorized(w)
				return
			}

			user, err := users.GetByAPIToken(r.Context(), token)
			if err != nil {
				respondUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the authenticated user from context
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// WithUser returns a context carrying the given user (used by tests)
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func respondUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"error":"Unauthorized"}`))
}
