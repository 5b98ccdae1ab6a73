package gate

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeUserLookupFailed  = "USER_LOOKUP_FAILED"
	TextCodeResolverRequired  = "STATE_RESOLVER_REQUIRED"
	TextCodeSigningKeyMissing = "SIGNING_KEY_MISSING"
)

// ErrUserNotFound is returned by finders when no user matches
var ErrUserNotFound = stderrors.New("user not found")

// ErrUnableToDecodeSession unable to decode JWT claims
var ErrUnableToDecodeSession = stderrors.New("unable to decode session")

// ErrTokenExpired the session token is past its expiration
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed the session token could not be parsed or verified
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrResolverRequired the middleware was built without a StateResolver
var ErrResolverRequired = errors.New("admin gate requires a state resolver", errors.CategoryInternal).
	WithTextCode(TextCodeResolverRequired).
	WithCode(errors.CodeInternal)

// ErrSigningKeyMissing no key material was configured for token validation
var ErrSigningKeyMissing = errors.New("signing key or JWK set required", errors.CategoryValidation).
	WithTextCode(TextCodeSigningKeyMissing).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsUserNotFound matches both the local sentinel and repository not found errors
func IsUserNotFound(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, ErrUserNotFound) || errors.IsNotFound(err)
}

func lookupFailed(err error, subject string) error {
	return errors.Wrap(err, errors.CategoryInternal, "failed to load user for session").
		WithTextCode(TextCodeUserLookupFailed).
		WithMetadata(map[string]any{"subject": subject})
}
