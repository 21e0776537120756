package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthClaims represents the decoded, verified payload of a token
type AuthClaims interface {
	Subject() string
	Type() TokenType
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. TokenType is the
// discriminator claim; a token without a recognized type fails any
// type-checked validation.
type JWTClaims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"type,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim, the account email
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Type returns the token discriminator
func (c *JWTClaims) Type() TokenType {
	return c.TokenType
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
