package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/benvon/autoartisan/internal/models"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// DefaultTTL is the fixed lifetime of an admin session.
const DefaultTTL = 24 * time.Hour

// UnknownSubject is used when the identity token carries neither sub nor user_id.
const UnknownSubject = "unknown_sub"

// ErrMissingSecret is returned when no signing secret is configured.
var ErrMissingSecret = errors.New("session signing secret is not configured")

// Minter signs and verifies HS256 session tokens.
type Minter struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// MinterOption configures a Minter
type MinterOption func(*Minter)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) MinterOption {
	return func(m *Minter) {
		m.ttl = ttl
	}
}

// WithMinterClock overrides time.Now.
func WithMinterClock(now func() time.Time) MinterOption {
	return func(m *Minter) {
		m.now = now
	}
}

// NewMinter creates a minter for secret.
func NewMinter(secret string, opts ...MinterOption) *Minter {
	m := &Minter{
		secret: []byte(secret),
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mint signs a session for email and subject and returns the token with its expiry.
func (m *Minter) Mint(email, subject string) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}

	issuedAt := m.now().Truncate(time.Second)
	expires := issuedAt.Add(m.ttl)

	tok, err := jwt.NewBuilder().
		Subject(subject).
		IssuedAt(issuedAt).
		Expiration(expires).
		Claim("email", email).
		Build()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build session token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, m.secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return string(signed), expires, nil
}

// Parse verifies the signature and expiry of a session token.
func (m *Minter) Parse(token string) (*models.SessionPayload, error) {
	if len(m.secret) == 0 {
		return nil, ErrMissingSecret
	}

	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, m.secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(m.now)),
		jwt.WithRequiredClaim("email"),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	payload := &models.SessionPayload{
		Subject:   tok.Subject(),
		ExpiresAt: tok.Expiration(),
	}
	if email, ok := tok.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			payload.Email = emailStr
		}
	}
	if payload.Email == "" {
		return nil, errors.New("invalid session token: empty email claim")
	}

	return payload, nil
}

// SubjectFor picks sub, then user_id, then UnknownSubject.
func SubjectFor(claims *models.IdentityClaims) string {
	switch {
	case claims.Subject != "":
		return claims.Subject
	case claims.UserID != "":
		return claims.UserID
	default:
		return UnknownSubject
	}
}
