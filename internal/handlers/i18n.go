package handlers

import (
	"net/http"
	"strings"

	"github.com/benvon/autoartisan/internal/i18n"
	"github.com/gorilla/mux"
)

// I18nHandler serves the UI message catalogs
type I18nHandler struct {
	catalog *i18n.Catalog
}

// NewI18nHandler creates a new catalog handler
func NewI18nHandler(catalog *i18n.Catalog) *I18nHandler {
	return &I18nHandler{catalog: catalog}
}

// RegisterRoutes registers routes under /api/i18n
func (h *I18nHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListLanguages).Methods("GET")
	r.HandleFunc("/{lang}", h.GetMessages).Methods("GET")
}

// ListLanguages returns the available language codes
func (h *I18nHandler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Languages())
}

// GetMessages returns the full catalog for a language, English keys filling any gaps
func (h *I18nHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	lang := strings.ToLower(mux.Vars(r)["lang"])
	messages, ok := h.catalog.Messages(lang)
	if !ok {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Unknown language")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	respondJSON(w, http.StatusOK, messages)
}
