package queue

import (
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrAlreadySettled is returned when a delivery is acked or nacked twice.
var ErrAlreadySettled = errors.New("delivery already settled")

// Message is a decoded contact-mail job together with the delivery it arrived on.
type Message struct {
	Job *Job

	delivery amqp.Delivery
	once     sync.Once
}

var _ MessageInterface = (*Message)(nil)

func newMessage(job *Job, delivery amqp.Delivery) *Message {
	return &Message{Job: job, delivery: delivery}
}

// Redelivered reports whether the broker has handed this job out before.
func (m *Message) Redelivered() bool {
	return m.delivery.Redelivered
}

// Ack removes the job from the queue.
func (m *Message) Ack() error {
	return m.settle(func() error { return m.delivery.Ack(false) })
}

// Nack rejects the job. Without requeue it goes to the dead-letter queue.
func (m *Message) Nack(requeue bool) error {
	return m.settle(func() error { return m.delivery.Nack(false, requeue) })
}

// GetJob returns the decoded job
func (m *Message) GetJob() *Job {
	return m.Job
}

func (m *Message) settle(fn func() error) error {
	err := ErrAlreadySettled
	m.once.Do(func() { err = fn() })
	return err
}
