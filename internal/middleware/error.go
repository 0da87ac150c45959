package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/benvon/autoartisan/internal/services/session"
	"go.uber.org/zap"
)

// authPathPrefix marks the session endpoints, which answer errors as {message, name}.
const authPathPrefix = "/api/auth/"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// AuthErrorResponse is the error shape of the session endpoints.
type AuthErrorResponse struct {
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
}

// ErrorHandler creates error handling middleware
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					// Log panic details server-side but don't expose to client
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
					)
					if isAuthPath(r) {
						writeAuthError(w, http.StatusInternalServerError, session.MsgInternalError, session.InternalError.String(), logger)
						return
					}
					respondErrorJSON(w, r, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", logger)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func isAuthPath(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, authPathPrefix)
}

// writeError picks the response shape for the route.
func writeError(w http.ResponseWriter, r *http.Request, status int, errorType, message string, logger *zap.Logger) {
	if isAuthPath(r) {
		writeAuthError(w, status, message, "", logger)
		return
	}
	respondErrorJSON(w, r, status, errorType, message, logger)
}

// respondErrorJSON sends an error JSON response
func respondErrorJSON(w http.ResponseWriter, r *http.Request, status int, errorType, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := ErrorResponse{
		Success:   false,
		Error:     errorType,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      r.URL.Path,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil && logger != nil {
		logger.Error("failed_to_encode_error_response",
			zap.Error(err),
			zap.Int("status_code", status),
			zap.String("path", r.URL.Path),
		)
	}
}

func writeAuthError(w http.ResponseWriter, status int, message, name string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(AuthErrorResponse{Message: message, Name: name}); err != nil && logger != nil {
		logger.Error("failed_to_encode_error_response", zap.Error(err), zap.Int("status_code", status))
	}
}
