package credentials_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-credentials"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

func newClockedTokenService(t *testing.T, clock func() time.Time) credentials.TokenService {
	t.Helper()
	cfg := newTestConfig()
	return credentials.NewTokenService(
		[]byte(cfg.SigningKey),
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		cfg.Issuer,
		jwt.ClaimStrings(cfg.Audience),
		nil,
		credentials.WithTokenClock(clock),
	)
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTokenServiceRoundtrip(t *testing.T) {
	ts := newClockedTokenService(t, fixedClock(testBase))

	token, err := ts.MintToken("user@example.com", credentials.TokenTypeAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token, credentials.TokenTypeAccess)
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", claims.Subject())
	assert.Equal(t, credentials.TokenTypeAccess, claims.Type())
	// jwt numeric dates decode in local time, compare instants not values
	assert.WithinDuration(t, testBase, claims.IssuedAt(), 0)
	assert.WithinDuration(t, testBase.Add(15*time.Minute), claims.Expires(), 0)
}

func TestTokenServiceMintPair(t *testing.T) {
	ts := newClockedTokenService(t, fixedClock(testBase))

	pair, err := ts.MintPair("user@example.com")
	require.NoError(t, err)

	assert.Equal(t, credentials.BearerTokenType, pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := ts.Validate(pair.AccessToken, credentials.TokenTypeAccess)
	require.NoError(t, err)
	assert.WithinDuration(t, testBase.Add(15*time.Minute), access.Expires(), 0)

	refresh, err := ts.Validate(pair.RefreshToken, credentials.TokenTypeRefresh)
	require.NoError(t, err)
	assert.WithinDuration(t, testBase.Add(7*24*time.Hour), refresh.Expires(), 0)
}

func TestTokenServiceTypeDiscrimination(t *testing.T) {
	ts := newClockedTokenService(t, fixedClock(testBase))

	pair, err := ts.MintPair("user@example.com")
	require.NoError(t, err)

	_, err = ts.Validate(pair.RefreshToken, credentials.TokenTypeAccess)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid access token")

	_, err = ts.Validate(pair.AccessToken, credentials.TokenTypeRefresh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid refresh token")
}

func TestTokenServiceExpiry(t *testing.T) {
	clock := testBase
	ts := newClockedTokenService(t, func() time.Time { return clock })

	token, err := ts.MintToken("user@example.com", credentials.TokenTypeAccess)
	require.NoError(t, err)

	// a second before expiry the token still verifies
	clock = testBase.Add(15*time.Minute - time.Second)
	_, err = ts.Validate(token, credentials.TokenTypeAccess)
	assert.NoError(t, err)

	// a second past expiry it fails with the expired sentinel, not malformed
	clock = testBase.Add(15*time.Minute + time.Second)
	_, err = ts.Validate(token, credentials.TokenTypeAccess)
	require.Error(t, err)
	assert.ErrorIs(t, err, credentials.ErrTokenExpired)
	assert.True(t, credentials.IsTokenExpiredError(err))
}

func TestTokenServiceWrongKey(t *testing.T) {
	ts := newClockedTokenService(t, fixedClock(testBase))

	other := credentials.NewTokenService(
		[]byte("a-different-signing-key"),
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		jwt.ClaimStrings{"test-audience"},
		nil,
		credentials.WithTokenClock(fixedClock(testBase)),
	)

	token, err := other.MintToken("user@example.com", credentials.TokenTypeAccess)
	require.NoError(t, err)

	_, err = ts.Validate(token, credentials.TokenTypeAccess)
	require.Error(t, err)

	var richErr *goerrors.Error
	require.ErrorAs(t, err, &richErr)
	assert.Equal(t, credentials.ErrTokenMalformed.TextCode, richErr.TextCode)
}

func TestTokenServiceGarbageToken(t *testing.T) {
	ts := newClockedTokenService(t, fixedClock(testBase))

	for _, token := range []string{"", "garbage", "aaa.bbb.ccc"} {
		_, err := ts.Validate(token, credentials.TokenTypeAccess)
		require.Error(t, err, "token %q should not validate", token)
	}
}

func TestTokenServiceTamperedToken(t *testing.T) {
	ts := newClockedTokenService(t, fixedClock(testBase))

	token, err := ts.MintToken("user@example.com", credentials.TokenTypeAccess)
	require.NoError(t, err)

	tampered := token + "AAAA"
	_, err = ts.Validate(tampered, credentials.TokenTypeAccess)
	assert.Error(t, err)
}

func TestTokenServiceUnknownTokenType(t *testing.T) {
	ts := newClockedTokenService(t, fixedClock(testBase))

	_, err := ts.MintToken("user@example.com", "session")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown token type")
}

func TestTokenServiceUniqueTokenIDs(t *testing.T) {
	ts := newClockedTokenService(t, fixedClock(testBase))

	// same subject, same instant, still distinct tokens thanks to jti
	first, err := ts.MintToken("user@example.com", credentials.TokenTypeAccess)
	require.NoError(t, err)
	second, err := ts.MintToken("user@example.com", credentials.TokenTypeAccess)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestTokenServiceIssuerEnforced(t *testing.T) {
	ts := newClockedTokenService(t, fixedClock(testBase))

	other := credentials.NewTokenService(
		[]byte(newTestConfig().SigningKey),
		15*time.Minute,
		7*24*time.Hour,
		"another-issuer",
		jwt.ClaimStrings{"test-audience"},
		nil,
		credentials.WithTokenClock(fixedClock(testBase)),
	)

	token, err := other.MintToken("user@example.com", credentials.TokenTypeAccess)
	require.NoError(t, err)

	_, err = ts.Validate(token, credentials.TokenTypeAccess)
	assert.Error(t, err)
}
