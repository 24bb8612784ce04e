package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token verification failures are split so callers can answer with the
// right status: an expired-but-well-formed token invites a refresh, while
// a malformed or mis-signed one demands a re-login.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// TokenClaims is the verified content of a session or refresh token.
// Both token kinds carry the same claim shape.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

type jwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for the provided user. Session and
// refresh tokens differ only in secret and TTL.
func GenerateToken(secret string, userID uuid.UUID, email string, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique jti so a rotated token never collides with its
			// predecessor, even when both are minted in the same second.
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates the token signature and expiry and returns the
// embedded claims. Expired tokens yield ErrTokenExpired; anything else
// wrong yields ErrTokenInvalid.
func ParseToken(secret, tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return &TokenClaims{UserID: userID, Email: claims.Email}, nil
}

// GenerateResetToken returns 32 bytes of cryptographic randomness as a hex
// string, used for password-reset and email-verification links.
func GenerateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
