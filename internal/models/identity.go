package models

import "time"

// IdentityClaims are the decoded claims of a verified Firebase ID token.
type IdentityClaims struct {
	Subject       string    `json:"sub"`
	UserID        string    `json:"user_id,omitempty"`
	Email         string    `json:"email"`
	EmailVerified *bool     `json:"email_verified,omitempty"` // nil when the claim is absent
	Issuer        string    `json:"iss"`
	Audience      []string  `json:"aud"`
	IssuedAt      time.Time `json:"iat"`
	ExpiresAt     time.Time `json:"exp"`
}

// SessionPayload is the locally minted back-office session.
type SessionPayload struct {
	Email     string    `json:"email"`
	Subject   string    `json:"sub"`
	ExpiresAt time.Time `json:"expires"`
}
