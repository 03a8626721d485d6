package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/forgo/wayfind/api/internal/model"
	"github.com/forgo/wayfind/api/pkg/token"
)

// TokenValidator defines the interface for bearer token validation
type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// Auth returns a middleware that gates requests on a valid bearer token.
// A missing, malformed, or rejected token yields 403. OPTIONS requests
// pass through so CORS preflights are never blocked.
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewAuthenticationError("missing authorization header").WriteJSON(w)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				model.NewAuthenticationError("invalid authorization header format").WriteJSON(w)
				return
			}

			claims, err := validator.Validate(parts[1])
			if err != nil {
				switch {
				case err == token.ErrTokenExpired:
					model.NewAuthenticationError("token expired").WriteJSON(w)
				case err == token.ErrInvalidSignature:
					model.NewAuthenticationError("invalid token signature").WriteJSON(w)
				default:
					model.NewAuthenticationError("invalid token").WriteJSON(w)
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user's id from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
