package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/benvon/autoartisan/internal/i18n"
	"github.com/benvon/autoartisan/internal/models"
	"gopkg.in/gomail.v2"
)

var contactHTML = template.Must(template.New("contact").Parse(`<div style="font-family: sans-serif; line-height: 1.5;">
  <h2>{{.Heading}}</h2>
  <p><strong>{{.NameLabel}}:</strong> {{.Name}}</p>
  <p><strong>{{.EmailLabel}}:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
  <p><strong>{{.MessageLabel}}:</strong></p>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
</div>`))

type contactView struct {
	Heading      string
	NameLabel    string
	EmailLabel   string
	MessageLabel string
	Name         string
	Email        string
	Message      string
}

// ContactEmail renders a contact submission for the admin mailbox in lang.
// Replies go to the visitor.
func ContactEmail(catalog *i18n.Catalog, lang, from, to string, msg *models.ContactMessage) (*gomail.Message, error) {
	view := contactView{
		Heading:      catalog.T(lang, "contactEmailHeading", nil),
		NameLabel:    catalog.T(lang, "contactEmailNameLabel", nil),
		EmailLabel:   catalog.T(lang, "contactEmailEmailLabel", nil),
		MessageLabel: catalog.T(lang, "contactEmailMessageLabel", nil),
		Name:         msg.Name,
		Email:        msg.Email,
		Message:      msg.Message,
	}

	var html bytes.Buffer
	if err := contactHTML.Execute(&html, view); err != nil {
		return nil, fmt.Errorf("failed to render contact email: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s\n\n", view.Heading)
	fmt.Fprintf(&text, "%s: %s\n", view.NameLabel, msg.Name)
	fmt.Fprintf(&text, "%s: %s\n\n", view.EmailLabel, msg.Email)
	fmt.Fprintf(&text, "%s:\n%s\n", view.MessageLabel, msg.Message)

	// header values cannot carry line breaks
	name := strings.Join(strings.Fields(msg.Name), " ")

	m := gomail.NewMessage()
	if from != "" {
		m.SetHeader("From", from)
	}
	m.SetHeader("To", to)
	m.SetAddressHeader("Reply-To", msg.Email, name)
	m.SetHeader("Subject", catalog.T(lang, "contactEmailSubject", map[string]any{"name": name}))
	m.SetBody("text/plain", text.String())
	m.AddAlternative("text/html", html.String())
	return m, nil
}
