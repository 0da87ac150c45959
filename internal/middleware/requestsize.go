package middleware

import (
	"net/http"
	"strings"
)

const (
	// DefaultMaxRequestSize covers panel car payloads with image URL lists.
	DefaultMaxRequestSize int64 = 1 << 20
	// SmallFormMaxRequestSize is enough for an ID token or a contact message.
	SmallFormMaxRequestSize int64 = 16 << 10
)

// PathLimit caps bodies under Prefix at MaxBytes.
type PathLimit struct {
	Prefix   string
	MaxBytes int64
}

// MaxRequestSize rejects bodies larger than the limit for the request path. The first
// matching PathLimit wins; everything else gets maxBytes.
func MaxRequestSize(maxBytes int64, limits ...PathLimit) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	limitFor := func(path string) int64 {
		for _, l := range limits {
			if l.MaxBytes > 0 && strings.HasPrefix(path, l.Prefix) {
				return l.MaxBytes
			}
		}
		return maxBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := limitFor(r.URL.Path)
			if r.ContentLength > limit {
				writeError(w, r, http.StatusRequestEntityTooLarge, "Request Entity Too Large", "Request body is too large", nil)
				return
			}

			// Chunked bodies are caught while the handler reads them.
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
