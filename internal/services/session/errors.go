package session

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies every way a login attempt can fail.
type ErrorKind int

const (
	InputMissing ErrorKind = iota + 1
	ConfigMissing
	KeyFetchFailed
	TokenExpired
	TokenInvalid
	Unauthorized
	InternalError
)

var kindNames = map[ErrorKind]string{
	InputMissing:   "InputMissing",
	ConfigMissing:  "ConfigMissing",
	KeyFetchFailed: "KeyFetchFailed",
	TokenExpired:   "TokenExpired",
	TokenInvalid:   "TokenInvalid",
	Unauthorized:   "Unauthorized",
	InternalError:  "InternalError",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Client-facing messages.
const (
	MsgInputMissing      = "ID token is required."
	MsgConfigMissing     = "Server configuration error."
	MsgKeyFetchFailed    = "Failed to verify Firebase token: could not fetch provider public keys."
	MsgTokenExpired      = "Firebase token has expired. Please log in again."
	MsgTokenInvalid      = "Invalid Firebase token (verification failed)."
	MsgInvalidPayload    = "Invalid token payload."
	MsgEmailMismatch     = "Unauthorized: Email does not match admin email."
	MsgInternalError     = "Server error."
	MsgSessionCreated    = "Session created successfully."
	MsgLogoutSuccessful  = "Logout successful"
	verificationFallback = "Failed to verify Firebase token: "
)

// Error is a classified login failure. Message is safe to return to the client;
// Err carries the detail that is only logged.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, err error) *Error {
	e := &Error{Kind: kind, Err: err}
	switch kind {
	case InputMissing:
		e.Status, e.Message = http.StatusBadRequest, MsgInputMissing
	case ConfigMissing:
		e.Status, e.Message = http.StatusInternalServerError, MsgConfigMissing
	case KeyFetchFailed:
		e.Status, e.Message = http.StatusUnauthorized, MsgKeyFetchFailed
	case TokenExpired:
		e.Status, e.Message = http.StatusUnauthorized, MsgTokenExpired
	case TokenInvalid:
		e.Status, e.Message = http.StatusUnauthorized, MsgTokenInvalid
	case Unauthorized:
		e.Status, e.Message = http.StatusForbidden, MsgEmailMismatch
	default:
		e.Kind, e.Status, e.Message = InternalError, http.StatusInternalServerError, MsgInternalError
	}
	return e
}

// AsError classifies any error. Unclassified errors become InternalError.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newError(InternalError, err)
}
