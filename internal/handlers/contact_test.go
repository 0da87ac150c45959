package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benvon/autoartisan/internal/i18n"
	"github.com/benvon/autoartisan/internal/queue"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func contactRouter(h *ContactHandler) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/contact").Subrouter())
	return r
}

func TestContactHandler_Submit(t *testing.T) {
	t.Parallel()

	catalog := i18n.MustLoad()
	valid := map[string]string{
		"name":    "Ana García",
		"email":   "ana@example.com",
		"message": "I would like to book a test drive.",
	}

	tests := []struct {
		name        string
		url         string
		header      string
		body        map[string]string
		queueErr    error
		wantStatus  int
		wantMessage string
		wantField   string
	}{
		{
			name:        "queued in default language",
			url:         "/api/contact",
			body:        valid,
			wantStatus:  http.StatusAccepted,
			wantMessage: "Gracias por contactarnos. Te responderemos a la brevedad.",
		},
		{
			name:        "queued in English via query",
			url:         "/api/contact?lang=en",
			body:        valid,
			wantStatus:  http.StatusAccepted,
			wantMessage: "Thank you for contacting us. We will get back to you shortly.",
		},
		{
			name:        "short name localized from Accept-Language",
			url:         "/api/contact",
			header:      "en-US,en;q=0.9",
			body:        map[string]string{"name": "A", "email": "ana@example.com", "message": valid["message"]},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Name must be at least 2 characters.",
			wantField:   "name",
		},
		{
			name:        "invalid email in Spanish",
			url:         "/api/contact?lang=es",
			body:        map[string]string{"name": "Ana", "email": "not-an-email", "message": valid["message"]},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Por favor, ingresa un correo electrónico válido.",
			wantField:   "email",
		},
		{
			name:        "name too long",
			url:         "/api/contact?lang=es",
			body:        map[string]string{"name": strings.Repeat("a", 201), "email": "ana@example.com", "message": valid["message"]},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Nombre es demasiado largo.",
			wantField:   "name",
		},
		{
			name:        "queue failure",
			url:         "/api/contact?lang=en",
			body:        valid,
			queueErr:    errors.New("channel closed"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An unexpected error occurred. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q := &mockEnqueuer{err: tt.queueErr}
			h := NewContactHandler(q, catalog, "es", zap.NewNop())
			h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

			req := newTestRequest("POST", tt.url, tt.body)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			w := httptest.NewRecorder()
			contactRouter(h).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d (%s)", tt.wantStatus, w.Code, w.Body.String())
			}

			var data map[string]string
			var body map[string]any
			if tt.wantStatus == http.StatusAccepted {
				body = decodeEnvelope(t, w, &data)
				if data["message"] != tt.wantMessage {
					t.Errorf("Expected message %q, got %q", tt.wantMessage, data["message"])
				}
			} else {
				body = decodeEnvelope(t, w, nil)
				if body["message"] != tt.wantMessage {
					t.Errorf("Expected message %q, got %q", tt.wantMessage, body["message"])
				}
			}

			if tt.wantField != "" {
				details, _ := body["details"].([]any)
				if len(details) == 0 {
					t.Fatal("Expected field details")
				}
				first, _ := details[0].(map[string]any)
				if first["field"] != tt.wantField {
					t.Errorf("Expected field %s, got %v", tt.wantField, first["field"])
				}
			}

			if tt.wantStatus != http.StatusAccepted {
				if len(q.jobs) != 0 {
					t.Errorf("Expected nothing queued, got %d jobs", len(q.jobs))
				}
				return
			}
			if len(q.jobs) != 1 {
				t.Fatalf("Expected one queued job, got %d", len(q.jobs))
			}
			job := q.jobs[0]
			if job.Type != queue.JobTypeContactEmail {
				t.Errorf("Expected job type %s, got %s", queue.JobTypeContactEmail, job.Type)
			}
			msg, err := job.ContactMessage()
			if err != nil {
				t.Fatalf("Failed to decode job payload: %v", err)
			}
			if msg.Name != "Ana García" || msg.Email != "ana@example.com" {
				t.Errorf("Unexpected payload %+v", msg)
			}
			if !msg.SubmittedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
				t.Errorf("Expected submitted_at from clock, got %v", msg.SubmittedAt)
			}
		})
	}
}

func TestContactHandler_NoQueue(t *testing.T) {
	t.Parallel()

	h := NewContactHandler(nil, i18n.MustLoad(), "en", zap.NewNop())
	w := httptest.NewRecorder()
	contactRouter(h).ServeHTTP(w, newTestRequest("POST", "/api/contact", map[string]string{
		"name": "Ana", "email": "ana@example.com", "message": "Is the GT still available?",
	}))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}
