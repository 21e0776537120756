package credentials

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. Email is the lookup key and unique across all
// accounts; PasswordHash is opaque and never serialized.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	FullName      string     `bun:"full_name" json:"full_name,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	IsActive      bool       `bun:"is_active" json:"is_active"`
	IsSuperuser   bool       `bun:"is_superuser" json:"is_superuser"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// TokenPair is what a successful login or refresh returns
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// BearerTokenType is the wire value for TokenPair.TokenType
const BearerTokenType = "bearer"

// AccountSummary is the projection returned by token validation. Active
// status is always re-checked against the store at validation time; only
// the subject claim is trusted from the token itself.
type AccountSummary struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name,omitempty"`
	IsSuperuser  bool      `json:"is_superuser"`
	TokenExpires time.Time `json:"token_expires"`
}
