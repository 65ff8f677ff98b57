package middleware

import (
	"context"
	"net/http"

	"gabber/annotator/internal/auth"
	"gabber/annotator/internal/common"
	"gabber/annotator/internal/constants"
	gormModels "gabber/annotator/internal/models/gorm"
)

// Authenticator resolves an access token to its user
type Authenticator interface {
	Authorize(ctx context.Context, token string) (*gormModels.User, error)
}

// AuthMiddleware attaches the caller when a bearer token is present. Requests
// without one continue anonymously; a bad token is rejected outright.
func AuthMiddleware(identity Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := identity.Authorize(r.Context(), token)
			if err != nil {
				common.RespondError(w, err)
				return
			}

			ctx := auth.SetCaller(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuthMiddleware rejects anonymous requests
func RequireAuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.GetCaller(r.Context()) == nil {
				common.RespondError(w, common.Unauthorized(constants.ErrAuthRequired))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
