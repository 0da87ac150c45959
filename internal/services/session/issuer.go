package session

import (
	"context"
	"errors"
	"strings"

	"github.com/benvon/autoartisan/internal/config"
	"github.com/benvon/autoartisan/internal/logger"
	"github.com/benvon/autoartisan/internal/models"
	"github.com/benvon/autoartisan/internal/services/firebase"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"go.uber.org/zap"
)

// TokenVerifier checks a raw identity token against a key set.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string, keys jwk.Set) (*models.IdentityClaims, error)
}

// Session is a freshly minted admin session.
type Session struct {
	Token   string
	Payload models.SessionPayload
}

// Issuer exchanges a Firebase ID token for an admin session.
// Each call is a single attempt: config check, key fetch, verify, authorize, mint.
type Issuer struct {
	cfg      config.AuthConfig
	keys     firebase.KeyFetcher
	verifier TokenVerifier
	minter   *Minter
	logger   *zap.Logger
}

// IssuerOption configures an Issuer
type IssuerOption func(*Issuer)

// WithVerifier replaces the Firebase verifier built from the project id.
func WithVerifier(v TokenVerifier) IssuerOption {
	return func(i *Issuer) {
		i.verifier = v
	}
}

// WithMinter replaces the minter built from the session secret.
func WithMinter(m *Minter) IssuerOption {
	return func(i *Issuer) {
		i.minter = m
	}
}

// NewIssuer creates an issuer. cfg may be incomplete; Issue reports it per request.
func NewIssuer(cfg config.AuthConfig, keys firebase.KeyFetcher, log *zap.Logger, opts ...IssuerOption) *Issuer {
	if log == nil {
		log = zap.NewNop()
	}
	i := &Issuer{
		cfg:      cfg,
		keys:     keys,
		verifier: firebase.NewVerifier(cfg.ProjectID),
		minter:   NewMinter(cfg.SessionSecret),
		logger:   log,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Minter returns the minter used for issued sessions.
func (i *Issuer) Minter() *Minter {
	return i.minter
}

// Issue runs one login attempt. All failures are *Error.
func (i *Issuer) Issue(ctx context.Context, idToken string) (*Session, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, newError(InputMissing, nil)
	}

	if missing := i.cfg.Missing(); len(missing) > 0 {
		i.logger.Error("session_config_missing", zap.Strings("missing", missing))
		return nil, newError(ConfigMissing, errors.New("missing "+strings.Join(missing, ", ")))
	}

	keys, err := i.keys.FetchKeys(ctx)
	if err != nil {
		i.logger.Error("provider_key_fetch_failed", zap.Error(err))
		return nil, newError(KeyFetchFailed, err)
	}

	claims, err := i.verifier.Verify(ctx, idToken, keys)
	if err != nil {
		e := classifyVerifyError(err)
		i.logger.Warn("identity_token_rejected",
			zap.String("kind", e.Kind.String()),
			zap.String("error", logger.SanitizeError(err)),
		)
		return nil, e
	}

	if err := Authorize(claims, i.cfg.AdminEmail, i.logger); err != nil {
		return nil, err
	}

	subject := SubjectFor(claims)
	token, expires, err := i.minter.Mint(claims.Email, subject)
	if err != nil {
		i.logger.Error("session_mint_failed", zap.Error(err))
		return nil, newError(InternalError, err)
	}

	i.logger.Info("admin_session_issued",
		zap.String("email", logger.SanitizeEmail(claims.Email)),
		zap.Time("expires", expires),
	)

	return &Session{
		Token: token,
		Payload: models.SessionPayload{
			Email:     claims.Email,
			Subject:   subject,
			ExpiresAt: expires,
		},
	}, nil
}

func classifyVerifyError(err error) *Error {
	switch {
	case errors.Is(err, firebase.ErrTokenExpired):
		return newError(TokenExpired, err)
	case errors.Is(err, firebase.ErrUnknownSigningKey):
		e := newError(TokenInvalid, err)
		e.Message = verificationFallback + firebase.ErrUnknownSigningKey.Error()
		return e
	case errors.Is(err, firebase.ErrTokenInvalid):
		return newError(TokenInvalid, err)
	default:
		e := newError(TokenInvalid, err)
		e.Message = verificationFallback + logger.SanitizeError(err)
		return e
	}
}
