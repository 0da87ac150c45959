package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benvon/autoartisan/internal/i18n"
	"github.com/gorilla/mux"
)

func TestI18nHandler(t *testing.T) {
	t.Parallel()

	r := mux.NewRouter()
	NewI18nHandler(i18n.MustLoad()).RegisterRoutes(r.PathPrefix("/api/i18n").Subrouter())

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{"spanish", "/api/i18n/es", http.StatusOK, "navContact", "Contacto"},
		{"english upper case", "/api/i18n/EN", http.StatusOK, "navContact", "Contact"},
		{"unknown", "/api/i18n/fr", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", tt.path, nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantKey == "" {
				return
			}
			var messages map[string]string
			decodeEnvelope(t, w, &messages)
			if messages[tt.wantKey] != tt.wantValue {
				t.Errorf("Expected %s=%q, got %q", tt.wantKey, tt.wantValue, messages[tt.wantKey])
			}
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/i18n", nil))
	var langs []string
	decodeEnvelope(t, w, &langs)
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "es" {
		t.Errorf("Expected [en es], got %v", langs)
	}
}
