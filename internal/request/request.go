package request

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/benvon/autoartisan/internal/models"
)

type contextKey string

const sessionContextKey contextKey = "session"

// SessionContextKey returns the context key used for the admin session. Exposed for tests.
func SessionContextKey() contextKey { return sessionContextKey }

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// WithSession returns a context carrying the verified admin session.
func WithSession(ctx context.Context, session *models.SessionPayload) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the admin session, or nil if missing or wrong type.
func SessionFromContext(r *http.Request) *models.SessionPayload {
	s, _ := r.Context().Value(sessionContextKey).(*models.SessionPayload)
	return s
}

// Language picks the UI language: ?lang= first, then the primary Accept-Language tag.
// Returns "" when neither is present; callers apply their default.
func Language(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		return strings.ToLower(lang)
	}
	header := r.Header.Get("Accept-Language")
	if header == "" {
		return ""
	}
	tag := strings.TrimSpace(strings.Split(header, ",")[0])
	tag = strings.Split(tag, ";")[0]
	tag = strings.Split(tag, "-")[0]
	return strings.ToLower(strings.TrimSpace(tag))
}
