package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mmynk/parcattraction/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for storing the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// UserNameKey is the context key for storing the authenticated user's name.
	UserNameKey contextKey = "user_name"
)

// GetUserID extracts the user ID from the context.
// Returns 0 if not found.
func GetUserID(ctx context.Context) int64 {
	userID, _ := ctx.Value(UserIDKey).(int64)
	return userID
}

// GetUserName extracts the user name from the context.
// Returns empty string if not found.
func GetUserName(ctx context.Context) string {
	name, _ := ctx.Value(UserNameKey).(string)
	return name
}

// TokenVerifier checks the value of an Authorization header.
type TokenVerifier interface {
	VerifyToken(authHeader string) auth.Verification
}

// unauthorizedMessages is the client-facing message per rejected status.
var unauthorizedMessages = map[auth.TokenStatus]string{
	auth.TokenMissing:   "Token manquant",
	auth.TokenMalformed: "Token invalide",
	auth.TokenExpired:   "Token expiré",
}

// RequireAuth returns a middleware that validates bearer tokens and requires authentication.
// Requests without a valid token get a 401 JSON body; otherwise the user ID
// and name are added to the request context. Rejections are logged on logger.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			v := verifier.VerifyToken(r.Header.Get("Authorization"))
			if !v.Valid() {
				logger.Warn("Token rejected",
					"path", r.URL.Path,
					"token", v.Status.String(),
					"request_id", GetRequestID(r.Context()),
				)
				writeJSON(w, http.StatusUnauthorized, map[string]string{
					"message": unauthorizedMessages[v.Status],
				})
				return
			}

			// Add user info to context
			ctx := context.WithValue(r.Context(), UserIDKey, v.Claims.UserID)
			ctx = context.WithValue(ctx, UserNameKey, v.Claims.Name)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
