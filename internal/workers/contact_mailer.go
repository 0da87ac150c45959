package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/autoartisan/internal/i18n"
	"github.com/benvon/autoartisan/internal/logger"
	"github.com/benvon/autoartisan/internal/mail"
	"github.com/benvon/autoartisan/internal/queue"
	"go.uber.org/zap"
)

// ContactMailer delivers contact_email jobs to the admin mailbox.
type ContactMailer struct {
	mailer   mail.Mailer
	catalog  *i18n.Catalog
	language string
	from     string
	to       string
	requeue  queue.Enqueuer
	logger   *zap.Logger
	now      func() time.Time
}

// NewContactMailer creates the worker. Mail is rendered in language, the admin's locale.
// requeue receives delayed retries.
func NewContactMailer(
	mailer mail.Mailer,
	catalog *i18n.Catalog,
	language, from, to string,
	requeue queue.Enqueuer,
	logger *zap.Logger,
) *ContactMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactMailer{
		mailer:   mailer,
		catalog:  catalog,
		language: language,
		from:     from,
		to:       to,
		requeue:  requeue,
		logger:   logger,
		now:      time.Now,
	}
}

// ProcessJob handles one delivery and always settles it: ack on success or scheduled retry,
// nack without requeue (dead letter) otherwise.
func (w *ContactMailer) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if job.Type != queue.JobTypeContactEmail {
		w.deadLetter(msg)
		return fmt.Errorf("unknown job type: %s", job.Type)
	}

	contact, err := job.ContactMessage()
	if err != nil {
		w.deadLetter(msg)
		return err
	}

	email, err := mail.ContactEmail(w.catalog, w.language, w.from, w.to, contact)
	if err != nil {
		w.deadLetter(msg)
		return err
	}

	if err := w.mailer.Send(ctx, email); err != nil {
		return w.handleSendError(ctx, msg, job, err)
	}

	if err := msg.Ack(); err != nil {
		return fmt.Errorf("failed to ack job: %w", err)
	}

	w.logger.Info("contact_email_delivered",
		zap.String("job_id", job.ID.String()),
		zap.String("from", logger.SanitizeEmail(contact.Email)),
		zap.Int("attempt", job.RetryCount+1),
	)
	return nil
}

func (w *ContactMailer) handleSendError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, sendErr error) error {
	if errors.Is(sendErr, mail.ErrNotConfigured) || !job.CanRetry() || w.requeue == nil {
		w.logger.Error("contact_email_dead_lettered",
			zap.String("job_id", job.ID.String()),
			zap.Int("retry_count", job.RetryCount),
			zap.String("error", logger.SanitizeError(sendErr)),
		)
		w.deadLetter(msg)
		return fmt.Errorf("contact email failed: %w", sendErr)
	}

	retry := *job
	retry.IncrementRetry()
	notBefore := w.now().Add(retry.RetryDelay())
	retry.NotBefore = &notBefore

	if err := w.requeue.Enqueue(ctx, &retry); err != nil {
		w.logger.Error("contact_email_retry_enqueue_failed",
			zap.String("job_id", job.ID.String()),
			zap.Error(err),
		)
		w.deadLetter(msg)
		return fmt.Errorf("contact email failed: %w", sendErr)
	}

	if err := msg.Ack(); err != nil {
		return fmt.Errorf("failed to ack retried job: %w", err)
	}

	w.logger.Warn("contact_email_retry_scheduled",
		zap.String("job_id", job.ID.String()),
		zap.Int("retry_count", retry.RetryCount),
		zap.Time("not_before", notBefore),
		zap.String("error", logger.SanitizeError(sendErr)),
	)
	return fmt.Errorf("contact email failed, retry scheduled: %w", sendErr)
}

func (w *ContactMailer) deadLetter(msg queue.MessageInterface) {
	if err := msg.Nack(false); err != nil {
		w.logger.Warn("job_nack_failed", zap.Error(err))
	}
}
