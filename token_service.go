package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey    []byte
	signingMethod *jwt.SigningMethodHMAC
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	audience      jwt.ClaimStrings
	logger        Logger
	now           func() time.Time
}

// TokenServiceOption customizes token service construction
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenClock injects a custom clock (useful for tests). Validation and
// minting become pure functions of (input, clock, signing key).
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if clock != nil {
			ts.now = clock
		}
	}
}

// WithSigningMethod selects the HMAC variant by its JWA name, e.g. HS256.
// Unrecognized names keep the HS256 default.
func WithSigningMethod(name string) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if m := resolveSigningMethod(name); m != nil {
			ts.signingMethod = m
		}
	}
}

// NewTokenService creates a new TokenService instance. Access and refresh
// expirations are independent; the signing key is held internally and never
// logged.
func NewTokenService(signingKey []byte, accessTTL, refreshTTL time.Duration, issuer string, audience jwt.ClaimStrings, logger Logger, opts ...TokenServiceOption) TokenService {
	if logger == nil {
		logger = defLogger{}
	}

	ts := &TokenServiceImpl{
		signingKey:    signingKey,
		signingMethod: jwt.SigningMethodHS256,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
		audience:      audience,
		logger:        logger,
		now:           time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// MintToken creates a signed token for the given subject carrying the type
// discriminator and an absolute expiry computed from the type's validity
// duration.
func (ts *TokenServiceImpl) MintToken(subject string, tokenType TokenType) (string, error) {
	ttl, err := ts.validityFor(tokenType)
	if err != nil {
		return "", err
	}

	now := ts.now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subject,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType: tokenType,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// MintPair mints the access/refresh token pair for a subject
func (ts *TokenServiceImpl) MintPair(subject string) (*TokenPair, error) {
	access, err := ts.MintToken(subject, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	refresh, err := ts.MintToken(subject, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    BearerTokenType,
	}, nil
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(ts.signingMethod, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning structured claims.
// When an expected TokenType is supplied, a mismatched discriminator fails
// with a distinct invalid-token error naming the expected type. Expired but
// otherwise valid tokens fail with ErrTokenExpired so callers can prompt
// re-authentication instead of rejecting outright.
func (ts *TokenServiceImpl) Validate(tokenString string, expected ...TokenType) (AuthClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 3)
	parserOptions = append(parserOptions, jwt.WithTimeFunc(ts.now))
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return nil, ErrTokenMalformed
	}

	if len(expected) > 0 && expected[0] != "" && claims.TokenType != expected[0] {
		ts.logger.Warn("TokenService validate token type mismatch", "expected", expected[0], "got", claims.TokenType)
		return nil, errors.New(fmt.Sprintf("invalid %s token", expected[0]), errors.CategoryAuth).
			WithTextCode(textCodeTokenMalformed).
			WithCode(errors.CodeUnauthorized)
	}

	return claims, nil
}

func (ts *TokenServiceImpl) validityFor(tokenType TokenType) (time.Duration, error) {
	switch tokenType {
	case TokenTypeAccess:
		return ts.accessTTL, nil
	case TokenTypeRefresh:
		return ts.refreshTTL, nil
	default:
		return 0, errors.New("unknown token type: "+tokenType, errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
}

func resolveSigningMethod(name string) *jwt.SigningMethodHMAC {
	switch name {
	case "", jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512
	default:
		return nil
	}
}
