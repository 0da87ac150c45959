package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestContentType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		contentType string
		wantStatus  int
	}{
		{"GET without header", "GET", "/api/cars", "", "", http.StatusOK},
		{"POST JSON", "POST", "/api/contact", `{}`, "application/json", http.StatusOK},
		{"POST JSON with charset", "POST", "/api/contact", `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"POST missing header", "POST", "/api/contact", `{}`, "", http.StatusBadRequest},
		{"PUT form body", "PUT", "/api/panel/settings/store", "a=b", "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"bodiless logout", "POST", "/api/auth/logout", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			var req *http.Request
			if tt.body == "" {
				req = httptest.NewRequest(tt.method, tt.path, nil)
			} else {
				req = httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()

			ContentType(handler).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	t.Parallel()

	limits := []PathLimit{{Prefix: "/api/contact", MaxBytes: 16}}

	tests := []struct {
		name       string
		path       string
		size       int
		wantStatus int
	}{
		{"contact under limit", "/api/contact", 16, http.StatusOK},
		{"contact over limit", "/api/contact", 64, http.StatusRequestEntityTooLarge},
		{"panel uses default", "/api/panel/cars", 64, http.StatusOK},
		{"panel over default", "/api/panel/cars", 129, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("POST", tt.path, strings.NewReader(strings.Repeat("x", tt.size)))
			w := httptest.NewRecorder()
			MaxRequestSize(128, limits...)(handler).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}
