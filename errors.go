package credentials

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	textCodeDuplicateAccount   = "DUPLICATE_ACCOUNT"
	textCodeRegistrationFailed = "REGISTRATION_FAILED"
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeAccountInactive    = "ACCOUNT_INACTIVE"
	textCodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	textCodeTokenExpired       = "TOKEN_EXPIRED"
	textCodeTokenMalformed     = "TOKEN_MALFORMED"
)

// ErrDuplicateAccount is returned when registering an email that already exists
var ErrDuplicateAccount = errors.New("a user with this email is already registered", errors.CategoryConflict).
	WithTextCode(textCodeDuplicateAccount).
	WithCode(errors.CodeConflict)

// ErrRegistrationFailed wraps storage or unexpected faults during registration
var ErrRegistrationFailed = errors.New("unable to complete user registration", errors.CategoryInternal).
	WithTextCode(textCodeRegistrationFailed).
	WithCode(errors.CodeInternal)

// ErrInvalidCredentials covers both unknown email and wrong password so
// callers cannot enumerate accounts
var ErrInvalidCredentials = errors.New("incorrect email or password", errors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrAccountInactive is returned once credentials checked out but the
// account is deactivated
var ErrAccountInactive = errors.New("user account is not active", errors.CategoryAuth).
	WithTextCode(textCodeAccountInactive).
	WithCode(errors.CodeUnauthorized)

// ErrAccountNotFound means the subject of an otherwise valid token no
// longer resolves to an account
var ErrAccountNotFound = errors.New("user not found", errors.CategoryAuth).
	WithTextCode(textCodeAccountNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens that verify but are past exp
var ErrTokenExpired = errors.New("token has expired", errors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers bad signatures, undecodable tokens, and wrong
// token type
var ErrTokenMalformed = errors.New("invalid token", errors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch error
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty plaintext passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
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
