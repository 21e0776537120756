package credentials

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Auther orchestrates authentication and the token lifecycle: it logs
// accounts in, validates access tokens, and exchanges refresh tokens for new
// pairs. It holds no mutable state of its own; all durable state lives
// behind the IdentityProvider's store.
type Auther struct {
	provider     IdentityProvider
	signingKey   []byte
	tokenService TokenService
	logger       Logger
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetAccessTokenExpiration(),
		opts.GetRefreshTokenExpiration(),
		opts.GetIssuer(),
		jwt.ClaimStrings(opts.GetAudience()),
		defLogger{},
		WithSigningMethod(opts.GetSigningMethod()),
	)

	return &Auther{
		provider:     provider,
		signingKey:   []byte(opts.GetSigningKey()),
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, e.g. to inject a clock in
// tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies credentials and mints an access/refresh pair with the
// account email as subject.
func (s *Auther) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	user, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Warn("login failed", "identifier", identifier, "error", err)
		return nil, err
	}

	pair, err := s.tokenService.MintPair(user.Email)
	if err != nil {
		s.logger.Error("login failed to mint token pair", "error", err)
		return nil, err
	}

	s.logger.Info("login successful", "identifier", identifier)
	return pair, nil
}

// Validate checks an access token and returns the account summary. Only the
// subject claim is trusted from the token: the account is re-fetched and its
// active flag re-checked against current store state, since it may have
// changed after the token was minted.
func (s *Auther) Validate(ctx context.Context, accessToken string) (*AccountSummary, error) {
	claims, err := s.tokenService.Validate(accessToken, TokenTypeAccess)
	if err != nil {
		s.logger.Warn("token validation failed", "error", err)
		return nil, err
	}

	user, err := s.provider.FindIdentityByEmail(ctx, claims.Subject())
	if err != nil {
		s.logger.Warn("token validation failed, account lookup", "subject", claims.Subject(), "error", err)
		return nil, err
	}

	if !user.IsActive {
		s.logger.Warn("token validation blocked, inactive account", "subject", claims.Subject())
		return nil, ErrAccountInactive
	}

	return &AccountSummary{
		UserID:       user.ID.String(),
		Email:        user.Email,
		FullName:     user.FullName,
		IsSuperuser:  user.IsSuperuser,
		TokenExpires: claims.Expires(),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access/refresh pair
// after re-checking that the account still exists and is active. The old
// refresh token is not invalidated server-side: tokens are stateless and no
// revocation store exists, an accepted design limitation of this module.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenService.Validate(refreshToken, TokenTypeRefresh)
	if err != nil {
		s.logger.Warn("token refresh failed", "error", err)
		return nil, err
	}

	user, err := s.provider.FindIdentityByEmail(ctx, claims.Subject())
	if err != nil {
		s.logger.Warn("token refresh failed, account lookup", "subject", claims.Subject(), "error", err)
		return nil, err
	}

	if !user.IsActive {
		s.logger.Warn("token refresh blocked, inactive account", "subject", claims.Subject())
		return nil, ErrAccountInactive
	}

	pair, err := s.tokenService.MintPair(user.Email)
	if err != nil {
		s.logger.Error("token refresh failed to mint token pair", "error", err)
		return nil, err
	}

	s.logger.Info("tokens refreshed", "subject", user.Email)
	return pair, nil
}
