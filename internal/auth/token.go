package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/guildofheroes/goh-api/internal/apperr"
	"github.com/guildofheroes/goh-api/internal/model"
)

// tokenTypeAccess is embedded in every signed token so an opaque refresh
// string or a token minted for another purpose can never pass as an
// access token.
const tokenTypeAccess = "access"

// AccessClaims is the signed claim set of an access token. Validity is
// entirely signature + expiry; no database lookup is involved.
type AccessClaims struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Identity is what a verified access token proves.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// AccessToken pairs a signed JWT with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken pairs an opaque token with its expiry. The raw string is
// unlinkable to a user except through the sessions table.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// NewAccessToken signs an HS256 JWT carrying the user's id (as the
// subject), username and role, valid for ttlMin minutes.
func NewAccessToken(secret string, user *model.User, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := AccessClaims{
		Username:  user.Username,
		Role:      user.Role,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken validates signature, expiry and token type, and
// extracts the identity. Expiry surfaces as apperr.Expired; every other
// defect (tampering, malformed input, wrong type claim, wrong secret)
// collapses to apperr.InvalidToken.
func VerifyAccessToken(secret, token string) (Identity, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperr.Expired()
		}
		return Identity{}, apperr.InvalidToken()
	}
	if !parsed.Valid || claims.TokenType != tokenTypeAccess {
		return Identity{}, apperr.InvalidToken()
	}
	sub, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, apperr.InvalidToken()
	}
	return Identity{UserID: sub, Username: claims.Username, Role: claims.Role}, nil
}

// NewRefreshToken returns an opaque URL-safe token (48 random bytes,
// 384 bits) expiring ttlDays from now.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := OpaqueToken(48)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// OpaqueToken returns n bytes of cryptographic randomness, URL-safe
// base64 encoded. Also used for magic-link tokens.
func OpaqueToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
