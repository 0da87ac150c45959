package middleware

import (
	"net/http"

	logpkg "github.com/benvon/autoartisan/internal/logger"
	"github.com/benvon/autoartisan/internal/models"
	"github.com/benvon/autoartisan/internal/request"
	"github.com/benvon/autoartisan/internal/services/session"
	"go.uber.org/zap"
)

// SessionParser verifies a session cookie value.
type SessionParser interface {
	Parse(token string) (*models.SessionPayload, error)
}

// RequireSession rejects requests without a valid admin session cookie and
// stores the session in the request context for the panel handlers.
// Successful writes are logged as panel_change with the admin's masked email.
func RequireSession(parser SessionParser, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				respondErrorJSON(w, r, http.StatusUnauthorized, "Unauthorized", "Session required", logger)
				return
			}

			payload, err := parser.Parse(cookie.Value)
			if err != nil {
				logger.Debug("session_rejected", zap.Error(err))
				respondErrorJSON(w, r, http.StatusUnauthorized, "Unauthorized", "Invalid or expired session", logger)
				return
			}

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r.WithContext(request.WithSession(r.Context(), payload)))

			if r.Method != http.MethodGet && wrapped.statusCode < http.StatusBadRequest {
				logger.Info("panel_change",
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.Int("status_code", wrapped.statusCode),
					zap.String("admin", logpkg.SanitizeEmail(payload.Email)),
				)
			}
		})
	}
}
