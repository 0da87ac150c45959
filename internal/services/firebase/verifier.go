package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benvon/autoartisan/internal/models"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// IssuerPrefix precedes the project id in the iss claim of Firebase ID tokens.
const IssuerPrefix = "https://securetoken.google.com/"

// ClockSkew is the drift tolerated between this server and Google on iat and exp.
const ClockSkew = 5 * time.Minute

var (
	// ErrUnknownSigningKey means the token names a kid that is not in the key set.
	ErrUnknownSigningKey = errors.New("unknown signing key")
	// ErrTokenExpired means the exp claim is in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers bad signatures and claims that fail validation.
	ErrTokenInvalid = errors.New("token invalid")
)

// Verifier checks Firebase ID tokens for a single project.
type Verifier struct {
	projectID string
	now       func() time.Time
}

// NewVerifier creates a verifier for projectID.
func NewVerifier(projectID string) *Verifier {
	return &Verifier{projectID: projectID, now: time.Now}
}

// Issuer is the expected iss claim.
func (v *Verifier) Issuer() string {
	return IssuerPrefix + v.projectID
}

// Verify checks the signature against keys and validates iss, aud and exp.
func (v *Verifier) Verify(ctx context.Context, rawToken string, keys jwk.Set) (*models.IdentityClaims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg, err := jws.Parse([]byte(rawToken))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed token: %w", ErrTokenInvalid, err)
	}
	sigs := msg.Signatures()
	if len(sigs) != 1 {
		return nil, fmt.Errorf("%w: expected one signature, got %d", ErrTokenInvalid, len(sigs))
	}
	headers := sigs[0].ProtectedHeaders()
	if headers.Algorithm() != jwa.RS256 {
		return nil, fmt.Errorf("%w: unexpected algorithm %s", ErrTokenInvalid, headers.Algorithm())
	}

	kid := headers.KeyID()
	if kid == "" {
		return nil, fmt.Errorf("%w: token header has no kid", ErrUnknownSigningKey)
	}
	key, ok := keys.LookupKeyID(kid)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSigningKey, kid)
	}

	if _, err := jws.Verify([]byte(rawToken), jws.WithKey(jwa.RS256, key)); err != nil {
		return nil, fmt.Errorf("%w: signature verification failed: %w", ErrTokenInvalid, err)
	}

	token, err := jwt.ParseInsecure([]byte(rawToken))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	err = jwt.Validate(token,
		jwt.WithClock(jwt.ClockFunc(v.now)),
		jwt.WithAcceptableSkew(ClockSkew),
		jwt.WithIssuer(v.Issuer()),
		jwt.WithAudience(v.projectID),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired()):
		return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case jwt.IsValidationError(err):
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	default:
		return nil, err
	}

	return extractClaims(token), nil
}

func extractClaims(token jwt.Token) *models.IdentityClaims {
	claims := &models.IdentityClaims{
		Subject:   token.Subject(),
		Issuer:    token.Issuer(),
		Audience:  token.Audience(),
		IssuedAt:  token.IssuedAt(),
		ExpiresAt: token.Expiration(),
	}

	if email, ok := token.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}

	if userID, ok := token.Get("user_id"); ok {
		if userIDStr, ok := userID.(string); ok {
			claims.UserID = userIDStr
		}
	}

	if verified, ok := token.Get("email_verified"); ok {
		if verifiedBool, ok := verified.(bool); ok {
			claims.EmailVerified = &verifiedBool
		}
	}

	return claims
}
