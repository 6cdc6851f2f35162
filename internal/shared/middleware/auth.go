package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ledger/internal/shared/apperr"
	"ledger/internal/shared/logger"
)

type ContextKey string

const (
	UserIDKey    ContextKey = "user_id"
	SessionIDKey ContextKey = "session_id"
)

// Authenticator validates a bearer token and returns the user and session
// it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (userID int64, sessionID string, err error)
}

// StaffChecker reports whether a user may use the admin API.
type StaffChecker interface {
	IsStaff(ctx context.Context, userID int64) (bool, error)
}

// UserID returns the authenticated user id stored by Auth.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok && id > 0
}

// SessionID returns the session id stored by Auth.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Auth rejects requests without a valid bearer token whose session is
// still active.
func Auth(authn Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}

			userID, sessionID, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, apperr.ErrAuthentication) {
					log.Error("authentication lookup failed", "error", err)
				}
				writeError(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, SessionIDKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff must run after Auth. Non-staff users get 403.
func RequireStaff(staff StaffChecker, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserID(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Unauthenticated.")
				return
			}

			isStaff, err := staff.IsStaff(r.Context(), userID)
			if err != nil {
				log.Error("staff lookup failed", "user_id", userID, "error", err)
				writeError(w, http.StatusInternalServerError, "Failed to verify permissions")
				return
			}
			if !isStaff {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
