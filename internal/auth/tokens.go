// Package auth issues and verifies bearer credentials and resolves them to
// identities backed by the current user record.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quiz-portal/internal/domain"
)

// Claims is the JWT payload carried by access and refresh tokens. Role is a
// hint for clients only; routing decisions always re-read the user record.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses HS256 access/refresh token pairs.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// SignAccess issues a short-lived access token for the user.
func (m *TokenManager) SignAccess(user domain.User) (string, error) {
	return m.sign(user, m.accessSecret, m.accessTTL)
}

// SignRefresh issues a long-lived refresh token for the user.
func (m *TokenManager) SignRefresh(user domain.User) (string, error) {
	return m.sign(user, m.refreshSecret, m.refreshTTL)
}

func (m *TokenManager) sign(user domain.User, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAccess verifies an access token and returns its claims.
func (m *TokenManager) ParseAccess(raw string) (*Claims, error) {
	return m.parse(raw, m.accessSecret)
}

// ParseRefresh verifies a refresh token and returns its claims.
func (m *TokenManager) ParseRefresh(raw string) (*Claims, error) {
	return m.parse(raw, m.refreshSecret)
}

func (m *TokenManager) parse(raw string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, errors.Join(domain.ErrInvalidCredential, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidCredential
	}
	return claims, nil
}
