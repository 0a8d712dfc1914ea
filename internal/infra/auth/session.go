// Package auth issues and verifies the JWT session tokens carried by
// admin and guard clients.
package auth

import (
	"errors"
	"fmt"
	"time"

	"accessd/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type SessionCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionCodec(secret string, ttl time.Duration) (*SessionCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionCodec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (c *SessionCodec) Issue(session domain.Session) (string, error) {
	now := c.now()
	claims := Claims{
		Role: string(session.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *SessionCodec) Verify(tokenString string) (domain.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Session{}, domain.ErrUnauthorized
	}
	role := domain.Role(claims.Role)
	switch role {
	case domain.RoleAdmin, domain.RoleGuard:
	default:
		return domain.Session{}, domain.ErrUnauthorized
	}
	return domain.Session{Subject: claims.Subject, Role: role}, nil
}
