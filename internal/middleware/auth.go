package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"inforia/internal/util"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const (
	UserContextKey   = contextKey("user")
	ClaimsContextKey = contextKey("claims")
)

// UserIDFromContext returns the authenticated user id set by AuthMiddleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserContextKey).(string)
	return id, ok && id != ""
}

// ClaimsFromContext returns the verified token claims set by AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*util.Claims, bool) {
	c, ok := ctx.Value(ClaimsContextKey).(*util.Claims)
	return c, ok && c != nil
}

// WithClaims stores verified claims the same way AuthMiddleware does. Used by tests and
// by callers that authenticate out of band.
func WithClaims(ctx context.Context, claims *util.Claims) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, claims.Subject)
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context())
			authHeader := r.Header.Get("Authorization")
			tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if authHeader == "" || tokenString == "" {
				logger.Warn().Msg("Authorization header missing")
				writeUnauthorized(w, "Authentication token is missing")
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				logger.Warn().Msg("Invalid authorization header")
				writeUnauthorized(w, "Invalid authorization header")
				return
			}
			claims, err := util.ValidateJWT(tokenString, jwtSecret)
			if err != nil {
				logger.Warn().Err(err).Msg("Invalid token")
				writeUnauthorized(w, "Authentication failed. Invalid JWT.")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
