// Package session issues and verifies the signed tokens the HTTP service
// hands out at login, and carries the verified identity through a request
// context.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrNoSecret     = errors.New("session secret not configured")
	ErrInvalidToken = errors.New("invalid session token")
)

// Claims identifies the logged-in account. Subject holds the username.
type Claims struct {
	jwt.RegisteredClaims
	IsAdmin bool `json:"is_admin"`
}

func (c *Claims) Username() string {
	return c.Subject
}

// Issue signs a token for username valid for ttl.
func Issue(username string, isAdmin bool, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		IsAdmin: isAdmin,
	})
	return token.SignedString(secret)
}

// Parse verifies tokenString and returns its claims. Any failure, including
// expiry and a foreign signing method, is reported as ErrInvalidToken.
func Parse(tokenString string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type contextKey string

const claimsContextKey contextKey = "session"

func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, c)
}

// FromContext returns the claims stored by WithClaims, if any.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsContextKey).(*Claims)
	return c, ok && c != nil
}
