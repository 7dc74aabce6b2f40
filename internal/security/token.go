package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token validation failures, distinguished so the transport layer can map
// expiry and signature problems to different status codes.
var (
	ErrTokenExpired = errors.New("security: token expired")
	ErrTokenInvalid = errors.New("security: token invalid")
)

// UserClaims is the session payload embedded in signed tokens.
type UserClaims struct {
	UserID uint64 `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// MintUserToken signs a stateless session token for the user. The token is
// self-contained; invalidation happens only by expiry or client discard.
func MintUserToken(secret string, userID uint64, email string, expiry time.Duration) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", fmt.Errorf("security: empty signing secret")
	}
	now := time.Now().UTC()
	claims := UserClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("security: sign token: %w", err)
	}
	return signed, nil
}

// ParseUserToken validates a session token and returns its claims.
func ParseUserToken(secret, tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
