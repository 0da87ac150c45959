// Package mail delivers outbound email over SMTP using gomail.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/benvon/autoartisan/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrNotConfigured is returned when the SMTP relay settings are incomplete.
var ErrNotConfigured = errors.New("smtp relay is not configured")

// Sender dials the relay and sends. gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends a prepared message.
type Mailer interface {
	Send(ctx context.Context, msg *gomail.Message) error
}

// SMTPMailer sends through the configured relay.
type SMTPMailer struct {
	cfg    config.MailConfig
	sender Sender
	logger *zap.Logger
}

// Option configures an SMTPMailer
type Option func(*SMTPMailer)

// WithSender replaces the gomail dialer, mainly for tests.
func WithSender(sender Sender) Option {
	return func(m *SMTPMailer) {
		m.sender = sender
	}
}

// NewSMTPMailer creates a mailer for cfg. gomail switches to implicit TLS on port 465.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger, opts ...Option) *SMTPMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &SMTPMailer{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	if m.sender == nil && cfg.Configured() {
		m.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return m
}

// Config returns the relay settings the mailer was built with.
func (m *SMTPMailer) Config() config.MailConfig {
	return m.cfg
}

// Send fills From when unset and delivers msg.
func (m *SMTPMailer) Send(ctx context.Context, msg *gomail.Message) error {
	if !m.cfg.Configured() || m.sender == nil {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.GetHeader("From")) == 0 {
		msg.SetHeader("From", m.cfg.From)
	}

	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail via %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}

	m.logger.Debug("mail_sent",
		zap.Strings("to", msg.GetHeader("To")),
		zap.Strings("subject", msg.GetHeader("Subject")),
	)
	return nil
}
