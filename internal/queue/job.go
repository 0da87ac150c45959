package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/autoartisan/internal/models"
	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeContactEmail delivers a storefront contact submission to the admin mailbox
	JobTypeContactEmail JobType = "contact_email"
)

const (
	// DefaultMaxRetries bounds redelivery of a failing job before it is dead-lettered.
	DefaultMaxRetries = 3
	// ContactEmailTTL is how long a contact job stays deliverable.
	ContactEmailTTL = 72 * time.Hour
)

// ErrWrongJobType is returned when a payload accessor is used on a job of another type.
var ErrWrongJobType = errors.New("wrong job type")

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID       `json:"id"`
	Type       JobType         `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	NotBefore  *time.Time      `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter   *time.Time      `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	CreatedAt  time.Time       `json:"created_at"`
	RetryCount int             `json:"retry_count"`
	MaxRetries int             `json:"max_retries"`
}

// NewJob creates a job carrying payload encoded as JSON.
func NewJob(jobType JobType, payload any) (*Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Payload:    raw,
		CreatedAt:  time.Now(),
		MaxRetries: DefaultMaxRetries,
	}, nil
}

// NewContactEmailJob wraps a contact submission. The job expires after ContactEmailTTL.
func NewContactEmailJob(msg *models.ContactMessage) (*Job, error) {
	job, err := NewJob(JobTypeContactEmail, msg)
	if err != nil {
		return nil, err
	}
	notAfter := job.CreatedAt.Add(ContactEmailTTL)
	job.NotAfter = &notAfter
	return job, nil
}

// ContactMessage decodes the payload of a contact_email job.
func (j *Job) ContactMessage() (*models.ContactMessage, error) {
	if j.Type != JobTypeContactEmail {
		return nil, fmt.Errorf("%w: %s", ErrWrongJobType, j.Type)
	}
	var msg models.ContactMessage
	if err := json.Unmarshal(j.Payload, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode contact message: %w", err)
	}
	return &msg, nil
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()

	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}

	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}

	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}
	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}

// RetryDelay is the backoff before the next attempt: 30s, 2m, 8m, ...
func (j *Job) RetryDelay() time.Duration {
	delay := 30 * time.Second
	for i := 1; i < j.RetryCount; i++ {
		delay *= 4
	}
	return delay
}
