package handlers

import (
	"net/http"

	"github.com/benvon/autoartisan/internal/database"
	"github.com/benvon/autoartisan/internal/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SettingsHandler serves the storefront settings documents
type SettingsHandler struct {
	repo   database.SettingsRepositoryInterface
	logger *zap.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(repo database.SettingsRepositoryInterface, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{repo: repo, logger: logger}
}

// RegisterRoutes registers the public read routes under /api/settings
func (h *SettingsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/store", h.GetStore).Methods("GET")
	r.HandleFunc("/footer", h.GetFooter).Methods("GET")
	r.HandleFunc("/chat-widget", h.GetChatWidget).Methods("GET")
}

// RegisterPanelRoutes registers the write routes under /api/panel/settings
func (h *SettingsHandler) RegisterPanelRoutes(r *mux.Router) {
	r.HandleFunc("/store", h.UpdateStore).Methods("PUT")
	r.HandleFunc("/footer", h.UpdateFooter).Methods("PUT")
	r.HandleFunc("/chat-widget", h.UpdateChatWidget).Methods("PUT")
}

// GetStore returns the store branding
func (h *SettingsHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.GetStore(r.Context())
	if err != nil {
		h.failed(w, "store", "Failed to load store settings", err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// UpdateStore replaces the store branding
func (h *SettingsHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	var s models.StoreSettings
	if err := decodeJSON(r, &s); err != nil {
		respondDecodeError(w, err)
		return
	}
	s.Normalize()
	if !validateOrRespond(w, s) {
		return
	}
	if err := h.repo.SaveStore(r.Context(), &s); err != nil {
		h.failed(w, "store", "Failed to save store settings", err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// GetFooter returns the footer content
func (h *SettingsHandler) GetFooter(w http.ResponseWriter, r *http.Request) {
	f, err := h.repo.GetFooter(r.Context())
	if err != nil {
		h.failed(w, "footer", "Failed to load footer", err)
		return
	}
	respondJSON(w, http.StatusOK, f)
}

// UpdateFooter replaces the footer content
func (h *SettingsHandler) UpdateFooter(w http.ResponseWriter, r *http.Request) {
	var f models.FooterConfig
	if err := decodeJSON(r, &f); err != nil {
		respondDecodeError(w, err)
		return
	}
	if f.SocialLinks == nil {
		f.SocialLinks = []models.SocialLink{}
	}
	if !validateOrRespond(w, f) {
		return
	}
	if err := h.repo.SaveFooter(r.Context(), &f); err != nil {
		h.failed(w, "footer", "Failed to save footer", err)
		return
	}
	respondJSON(w, http.StatusOK, f)
}

// GetChatWidget returns the chat widget settings with the computed WhatsApp link
func (h *SettingsHandler) GetChatWidget(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.GetChatWidget(r.Context())
	if err != nil {
		h.failed(w, "chat_widget", "Failed to load chat widget settings", err)
		return
	}
	respondJSON(w, http.StatusOK, models.ChatWidgetView{ChatWidgetSettings: *c, WhatsAppLink: c.WhatsAppLink()})
}

// UpdateChatWidget replaces the chat widget settings
func (h *SettingsHandler) UpdateChatWidget(w http.ResponseWriter, r *http.Request) {
	c := models.DefaultChatWidgetSettings()
	if err := decodeJSON(r, &c); err != nil {
		respondDecodeError(w, err)
		return
	}
	if !validateOrRespond(w, c) {
		return
	}
	if err := h.repo.SaveChatWidget(r.Context(), &c); err != nil {
		h.failed(w, "chat_widget", "Failed to save chat widget settings", err)
		return
	}
	respondJSON(w, http.StatusOK, models.ChatWidgetView{ChatWidgetSettings: c, WhatsAppLink: c.WhatsAppLink()})
}

func (h *SettingsHandler) failed(w http.ResponseWriter, key, message string, err error) {
	h.logger.Error("settings_repository_failed", zap.String("settings_key", key), zap.Error(err))
	respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", message)
}
