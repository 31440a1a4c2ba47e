package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"paperless/internal/auth"
	"paperless/internal/logger"
	"paperless/internal/models"
	"paperless/internal/storage"
)

type contextKey string

const userContextKey contextKey = "user"

// userFrom returns the authenticated user attached by RequireAuth.
func userFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userContextKey).(models.User)
	return u, ok
}

// AuthMiddleware verifies bearer tokens and resolves the calling user.
type AuthMiddleware struct {
	tokens *auth.TokenManager
	users  storage.UserStore
}

// NewAuthMiddleware constructs the middleware.
func NewAuthMiddleware(tokens *auth.TokenManager, users storage.UserStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// RequireAuth rejects requests without a valid session token and
// attaches the token's user to the request context.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "No token provided. Please log in.")
			return
		}

		claims, err := m.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Token has expired. Please log in again.")
				return
			}
			writeError(w, http.StatusUnauthorized, "Invalid token. Please log in again.")
			return
		}

		user, err := m.users.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "User not found. Token may be invalid.")
				return
			}
			logger.Log.Error().Err(err).Msg("Failed to resolve token user")
			writeError(w, http.StatusInternalServerError, "Authentication failed.")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

// CORS adds Access-Control headers for allowed origins and
// short-circuits OPTIONS preflights.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[strings.ToLower(origin)] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || allowed[strings.ToLower(origin)]) {
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging emits one structured log line per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
