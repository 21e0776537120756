package credentials

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// TokenType discriminates access tokens from refresh tokens. A token minted
// with one type never verifies where the other is expected.
type TokenType = string

const (
	// TokenTypeAccess is the short-lived bearer token
	TokenTypeAccess TokenType = "access"
	// TokenTypeRefresh is the long-lived exchange token
	TokenTypeRefresh TokenType = "refresh"
)

// Authenticator holds the session issuance operations exposed to routing
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (*TokenPair, error)
	Validate(ctx context.Context, accessToken string) (*AccountSummary, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

// TokenService mints and validates signed tokens
type TokenService interface {
	MintToken(subject string, tokenType TokenType) (string, error)
	MintPair(subject string) (*TokenPair, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string, expected ...TokenType) (AuthClaims, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetIssuer() string
	GetAudience() []string
	GetAccessTokenExpiration() time.Duration
	GetRefreshTokenExpiration() time.Duration
}

// UserStore is the persistence surface the orchestration components need.
// Implementations must enforce email uniqueness on Register.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
}

// IdentityProvider ensures we have a store to verify and retrieve accounts
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (*User, error)
	FindIdentityByEmail(ctx context.Context, email string) (*User, error)
}

// AccountRegistrerer is the interface we need to handle new user registrations
type AccountRegistrerer interface {
	Execute(ctx context.Context, msg RegisterUserMessage) (*User, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
