package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildofheroes/goh-api/internal/apperr"
	"github.com/guildofheroes/goh-api/internal/model"
)

const testSecret = "test-secret-0123456789"

func testUser() *model.User {
	return &model.User{ID: 42, Username: "aragorn", Role: model.RolePlayer}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testUser(), 30)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), tok.Exp, 5*time.Second)

	ident, err := VerifyAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ident.UserID)
	assert.Equal(t, "aragorn", ident.Username)
	assert.Equal(t, model.RolePlayer, ident.Role)
}

func TestVerifyAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testUser(), -1)
	require.NoError(t, err)

	_, err = VerifyAccessToken(testSecret, tok.Token)
	assert.True(t, apperr.IsKind(err, apperr.KindExpired), "expected expired, got %v", err)
}

func TestVerifyAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, testUser(), 30)
	require.NoError(t, err)

	_, err = VerifyAccessToken("a-different-secret", tok.Token)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidToken), "expected invalid token, got %v", err)
}

func TestVerifyAccessTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "not.a.jwt", "aGVsbG8"} {
		_, err := VerifyAccessToken(testSecret, raw)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidToken), "input %q: got %v", raw, err)
	}
}

func TestVerifyAccessTokenRejectsWrongType(t *testing.T) {
	// A well-signed token whose type claim is not "access" must not pass.
	claims := AccessClaims{
		Username:  "aragorn",
		Role:      model.RolePlayer,
		TokenType: "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifyAccessToken(testSecret, signed)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidToken))
}

func TestVerifyAccessTokenRequiresExpiry(t *testing.T) {
	// A well-signed access token with no exp claim would otherwise never
	// expire; it must not verify.
	claims := AccessClaims{
		Username:  "aragorn",
		Role:      model.RolePlayer,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "42",
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = VerifyAccessToken(testSecret, signed)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidToken), "got %v", err)
}

func TestVerifyAccessTokenRejectsNoneAlg(t *testing.T) {
	claims := AccessClaims{
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = VerifyAccessToken(testSecret, signed)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidToken))
}

func TestNewRefreshToken(t *testing.T) {
	tok, err := NewRefreshToken(30)
	require.NoError(t, err)
	// 48 random bytes base64url encode to 64 chars.
	assert.Len(t, tok.Raw, 64)
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), tok.Exp, 5*time.Second)

	other, err := NewRefreshToken(30)
	require.NoError(t, err)
	assert.NotEqual(t, tok.Raw, other.Raw)
}

func TestOpaqueTokenURLSafe(t *testing.T) {
	tok, err := OpaqueToken(48)
	require.NoError(t, err)
	assert.NotContains(t, tok, "+")
	assert.NotContains(t, tok, "/")
	assert.NotContains(t, tok, "=")
}
