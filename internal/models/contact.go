package models

import "time"

// ContactMessage is a storefront contact-form submission
type ContactMessage struct {
	Name        string    `json:"name" validate:"required,min=2,max=200"`
	Email       string    `json:"email" validate:"required,email,max=254"`
	Message     string    `json:"message" validate:"required,min=10,max=5000"`
	SubmittedAt time.Time `json:"submitted_at"`
}
