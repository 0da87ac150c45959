package handlers

import (
	"net/http"
	"time"

	"github.com/benvon/autoartisan/internal/i18n"
	"github.com/benvon/autoartisan/internal/logger"
	"github.com/benvon/autoartisan/internal/models"
	"github.com/benvon/autoartisan/internal/queue"
	"github.com/benvon/autoartisan/internal/request"
	"github.com/benvon/autoartisan/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ContactHandler accepts storefront contact-form submissions and queues them for mailing
type ContactHandler struct {
	queue           queue.Enqueuer
	catalog         *i18n.Catalog
	defaultLanguage string
	logger          *zap.Logger
	now             func() time.Time
}

// NewContactHandler creates a contact handler. A nil queue answers 503.
func NewContactHandler(q queue.Enqueuer, catalog *i18n.Catalog, defaultLanguage string, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{
		queue:           q,
		catalog:         catalog,
		defaultLanguage: defaultLanguage,
		logger:          logger,
		now:             time.Now,
	}
}

// RegisterRoutes registers the contact route. The router should have the /api/contact prefix
func (h *ContactHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.SubmitContact).Methods("POST")
}

// ContactFieldError is a localized validation message for one form field
type ContactFieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SubmitContact validates the form and enqueues a contact_email job.
func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	lang := h.catalog.Resolve(request.Language(r), h.defaultLanguage)

	var msg models.ContactMessage
	if err := decodeJSON(r, &msg); err != nil {
		respondDecodeError(w, err)
		return
	}

	msg.Name = validation.SanitizeText(msg.Name)
	msg.Email = validation.SanitizeText(msg.Email)
	msg.Message = validation.SanitizeText(msg.Message)

	if err := validation.Validate.Struct(msg); err != nil {
		fields, ok := validation.FieldErrors(err)
		if !ok {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", h.catalog.T(lang, "contactFormErrorServerDefault", nil))
			return
		}
		details := h.localize(lang, fields)
		respondJSONErrorDetails(w, http.StatusBadRequest, "Bad Request", details[0].Message, details)
		return
	}

	if h.queue == nil {
		h.logger.Error("contact_queue_unavailable")
		respondJSONError(w, http.StatusServiceUnavailable, "Service Unavailable", h.catalog.T(lang, "contactFormErrorServerDefault", nil))
		return
	}

	msg.SubmittedAt = h.now().UTC()
	job, err := queue.NewContactEmailJob(&msg)
	if err != nil {
		h.logger.Error("failed_to_build_contact_job", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", h.catalog.T(lang, "contactFormErrorServerDefault", nil))
		return
	}
	if err := h.queue.Enqueue(r.Context(), job); err != nil {
		h.logger.Error("failed_to_enqueue_contact_job", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", h.catalog.T(lang, "contactFormErrorServerDefault", nil))
		return
	}

	h.logger.Info("contact_message_queued",
		zap.String("job_id", job.ID.String()),
		zap.String("email", logger.SanitizeEmail(msg.Email)),
		zap.String("language", lang),
	)
	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": h.catalog.T(lang, "contactFormSuccessDesc", nil),
	})
}

var contactFieldLabels = map[string]string{
	"name":    "contactEmailNameLabel",
	"email":   "contactEmailEmailLabel",
	"message": "contactEmailMessageLabel",
}

func (h *ContactHandler) localize(lang string, fields []validation.FieldError) []ContactFieldError {
	out := make([]ContactFieldError, 0, len(fields))
	for _, f := range fields {
		var key string
		switch {
		case f.Rule == "max":
			out = append(out, ContactFieldError{
				Field: f.Field,
				Message: h.catalog.T(lang, "contactFormErrorFieldTooLong", map[string]any{
					"field": h.catalog.T(lang, contactFieldLabels[f.Field], nil),
				}),
			})
			continue
		case f.Field == "name":
			key = "contactFormErrorNameTooShort"
		case f.Field == "email":
			key = "contactFormErrorEmailInvalid"
		case f.Field == "message":
			key = "contactFormErrorMessageTooShort"
		default:
			key = "contactFormErrorServerDefault"
		}
		out = append(out, ContactFieldError{Field: f.Field, Message: h.catalog.T(lang, key, nil)})
	}
	return out
}
