package session

import (
	"errors"
	"net/http"

	"github.com/benvon/autoartisan/internal/logger"
	"github.com/benvon/autoartisan/internal/models"
	"go.uber.org/zap"
)

// Authorize admits only the configured administrator. The comparison is case-sensitive.
// An unverified email is logged but not rejected.
func Authorize(claims *models.IdentityClaims, adminEmail string, log *zap.Logger) error {
	if claims == nil || claims.Email == "" {
		e := newError(Unauthorized, errors.New("identity token has no email claim"))
		e.Status, e.Message = http.StatusUnauthorized, MsgInvalidPayload
		return e
	}

	if claims.Email != adminEmail {
		log.Warn("unauthorized_admin_login_attempt",
			zap.String("email", logger.SanitizeEmail(claims.Email)),
		)
		return newError(Unauthorized, errors.New("email does not match admin email"))
	}

	if claims.EmailVerified == nil || !*claims.EmailVerified {
		log.Warn("identity_email_not_verified",
			zap.String("email", logger.SanitizeEmail(claims.Email)),
			zap.Bool("claim_present", claims.EmailVerified != nil),
		)
	}

	return nil
}
