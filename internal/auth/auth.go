package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

// ClaimsKey is the request-context key under which the authentication
// middleware stores the validated session claims.
const ClaimsKey ctxKey = 1

// SessionTTL bounds the lifetime of an anonymous cart session. Carts older
// than this are abandoned; the snapshot stores expire them on their own.
const SessionTTL = 7 * 24 * time.Hour

// Claims carried by a cart session token. Subject is the cart id.
type Claims struct {
	jwt.RegisteredClaims
}

// Keys signs and verifies cart session tokens.
type Keys struct {
	secret []byte
}

func NewKeys(secret string) (*Keys, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	return &Keys{secret: []byte(secret)}, nil
}

// GenerateToken issues a signed session token for the given cart id.
func (k *Keys) GenerateToken(cartID string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cartID,
			Issuer:    "storefront-service",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(k.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a session token and returns its claims.
func (k *Keys) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return k.secret, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return Claims{}, fmt.Errorf("invalid session token")
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("session token has no cart id")
	}
	return claims, nil
}
