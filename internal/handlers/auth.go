package handlers

import (
	"context"
	"net/http"

	"github.com/benvon/autoartisan/internal/request"
	"github.com/benvon/autoartisan/internal/services/session"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SessionIssuer exchanges an identity token for an admin session.
type SessionIssuer interface {
	Issue(ctx context.Context, idToken string) (*session.Session, error)
}

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	issuer        SessionIssuer
	secureCookies bool
	logger        *zap.Logger
}

// NewAuthHandler creates a new auth handler. secureCookies marks the session cookie Secure.
func NewAuthHandler(issuer SessionIssuer, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{issuer: issuer, secureCookies: secureCookies, logger: logger}
}

// RegisterRoutes registers auth routes on the given router
// The router should already have the /api/auth prefix
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/firebase-session", h.CreateSession).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
}

// CreateSessionRequest is the login request body
type CreateSessionRequest struct {
	IDToken string `json:"idToken"`
}

// CreateSession verifies a Firebase ID token and sets the admin session cookie.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	// an unreadable body carries no token; the issuer reports it as InputMissing
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Debug("session_request_body_unreadable", zap.Error(err))
	}

	s, err := h.issuer.Issue(r.Context(), req.IDToken)
	if err != nil {
		e := session.AsError(err)
		h.logger.Info("admin_session_denied",
			zap.String("kind", e.Kind.String()),
			zap.Int("status_code", e.Status),
			zap.String("ip", request.ClientIP(r)),
		)
		respondAuthJSON(w, e.Status, authResponse{Message: e.Message, Name: e.Kind.String()})
		return
	}

	session.SetCookie(w, s.Token, s.Payload.ExpiresAt, h.secureCookies)
	respondAuthJSON(w, http.StatusOK, authResponse{Message: session.MsgSessionCreated})
}

// Logout clears the session cookie. It succeeds with or without an active session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w, h.secureCookies)
	respondAuthJSON(w, http.StatusOK, authResponse{Message: session.MsgLogoutSuccessful})
}

// GetSession returns the panel session restored by the session middleware.
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s := request.SessionFromContext(r)
	if s == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}
	respondJSON(w, http.StatusOK, s)
}
