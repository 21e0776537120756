package credentials

import (
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// SimpleConfig is an explicitly constructed Config: built once at process
// start and treated as immutable afterwards. There is no cached global.
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	Issuer          string
	Audience        []string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

var _ Config = (*SimpleConfig)(nil)

const (
	// DefaultAccessTokenTTL matches the original service's 15 minute window
	DefaultAccessTokenTTL = 15 * time.Minute
	// DefaultRefreshTokenTTL matches the original service's 7 day window
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// NewConfigFromEnv builds a SimpleConfig from AUTH_* environment variables.
// AUTH_SIGNING_KEY is required; TTLs accept Go duration strings.
func NewConfigFromEnv() (*SimpleConfig, error) {
	cfg := &SimpleConfig{
		SigningKey:      os.Getenv("AUTH_SIGNING_KEY"),
		SigningMethod:   os.Getenv("AUTH_SIGNING_METHOD"),
		Issuer:          os.Getenv("AUTH_ISSUER"),
		AccessTokenTTL:  DefaultAccessTokenTTL,
		RefreshTokenTTL: DefaultRefreshTokenTTL,
	}

	if aud := os.Getenv("AUTH_AUDIENCE"); aud != "" {
		for _, a := range strings.Split(aud, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Audience = append(cfg.Audience, a)
			}
		}
	}

	if raw := os.Getenv("AUTH_ACCESS_TOKEN_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryValidation, "invalid AUTH_ACCESS_TOKEN_TTL")
		}
		cfg.AccessTokenTTL = d
	}

	if raw := os.Getenv("AUTH_REFRESH_TOKEN_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryValidation, "invalid AUTH_REFRESH_TOKEN_TTL")
		}
		cfg.RefreshTokenTTL = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration is usable. The signing key value itself
// is never included in any error or log output.
func (c *SimpleConfig) Validate() error {
	if c.SigningKey == "" {
		return errors.New("signing key is required", errors.CategoryValidation)
	}

	if resolveSigningMethod(c.SigningMethod) == nil {
		return errors.New("unsupported signing method: "+c.SigningMethod, errors.CategoryValidation)
	}

	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token expirations must be positive", errors.CategoryValidation)
	}

	return nil
}

func (c *SimpleConfig) GetSigningKey() string { return c.SigningKey }

func (c *SimpleConfig) GetSigningMethod() string { return c.SigningMethod }

func (c *SimpleConfig) GetIssuer() string { return c.Issuer }

func (c *SimpleConfig) GetAudience() []string { return c.Audience }

func (c *SimpleConfig) GetAccessTokenExpiration() time.Duration { return c.AccessTokenTTL }

func (c *SimpleConfig) GetRefreshTokenExpiration() time.Duration { return c.RefreshTokenTTL }
