package session

import (
	"errors"
	"net/http"
	"testing"

	"github.com/benvon/autoartisan/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func boolPtr(b bool) *bool { return &b }

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		claims       *models.IdentityClaims
		wantStatus   int
		wantMessage  string
		wantWarnings []string
	}{
		{
			name:   "admin with verified email",
			claims: &models.IdentityClaims{Email: "admin@example.com", EmailVerified: boolPtr(true)},
		},
		{
			name:         "unverified email is only a warning",
			claims:       &models.IdentityClaims{Email: "admin@example.com", EmailVerified: boolPtr(false)},
			wantWarnings: []string{"identity_email_not_verified"},
		},
		{
			name:         "missing email_verified claim is only a warning",
			claims:       &models.IdentityClaims{Email: "admin@example.com"},
			wantWarnings: []string{"identity_email_not_verified"},
		},
		{
			name:        "missing email",
			claims:      &models.IdentityClaims{Subject: "uid"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: MsgInvalidPayload,
		},
		{
			name:        "nil claims",
			claims:      nil,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: MsgInvalidPayload,
		},
		{
			name:         "different email",
			claims:       &models.IdentityClaims{Email: "intruder@example.com", EmailVerified: boolPtr(true)},
			wantStatus:   http.StatusForbidden,
			wantMessage:  MsgEmailMismatch,
			wantWarnings: []string{"unauthorized_admin_login_attempt"},
		},
		{
			name:         "comparison is case-sensitive",
			claims:       &models.IdentityClaims{Email: "Admin@Example.com", EmailVerified: boolPtr(true)},
			wantStatus:   http.StatusForbidden,
			wantMessage:  MsgEmailMismatch,
			wantWarnings: []string{"unauthorized_admin_login_attempt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.WarnLevel)
			err := Authorize(tt.claims, "admin@example.com", zap.New(core))

			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
			} else {
				var e *Error
				if !errors.As(err, &e) {
					t.Fatalf("Expected *Error, got %v", err)
				}
				if e.Kind != Unauthorized {
					t.Errorf("Expected Unauthorized kind, got %s", e.Kind)
				}
				if e.Status != tt.wantStatus {
					t.Errorf("Expected status %d, got %d", tt.wantStatus, e.Status)
				}
				if e.Message != tt.wantMessage {
					t.Errorf("Expected message %q, got %q", tt.wantMessage, e.Message)
				}
			}

			entries := logs.All()
			if len(entries) != len(tt.wantWarnings) {
				t.Fatalf("Expected %d warnings, got %d", len(tt.wantWarnings), len(entries))
			}
			for i, want := range tt.wantWarnings {
				if entries[i].Message != want {
					t.Errorf("Expected warning %q, got %q", want, entries[i].Message)
				}
			}
		})
	}
}
