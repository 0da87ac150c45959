package middleware

import (
	"net/http"
	"strings"
)

const hstsValue = "max-age=31536000; includeSubDomains; preload"

var staticSecurityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"X-XSS-Protection", "1; mode=block"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "camera=(), microphone=(), geolocation=()"},
	{"Content-Security-Policy", "default-src 'none'"},
}

// Responses under these prefixes set or depend on the admin session cookie.
var noStorePrefixes = []string{authPathPrefix, "/api/panel/"}

// SecurityHeaders sets security headers on all responses. Session-bearing routes are
// never cached, and HSTS is only sent over TLS when enabled.
func SecurityHeaders(enableHSTS bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range staticSecurityHeaders {
				h.Set(kv[0], kv[1])
			}

			if enableHSTS && r.TLS != nil {
				h.Set("Strict-Transport-Security", hstsValue)
			}

			for _, prefix := range noStorePrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					h.Set("Cache-Control", "no-store")
					break
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
