package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fast-admin/fastadmin/models"
)

// TokenKind discriminates access from refresh tokens. The kind lives inside
// the signed payload, so it cannot be forged by presenting a token on a
// different endpoint.
type TokenKind string

const (
	KindAccess  TokenKind = "accessToken"
	KindRefresh TokenKind = "refreshToken"
)

// Default validity windows, overridable through configuration.
const (
	DefaultAccessTTL  = 12 * time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims is the signed token payload.
type Claims struct {
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	TokenType TokenKind `json:"tokenType"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HMAC-signed tokens. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration

	// Now is the clock used for issuance and expiry checks. Tests override it.
	Now func() time.Time
}

// NewManager builds a Manager signing with HS256. Zero TTLs fall back to the
// defaults.
func NewManager(secret []byte, accessTTL, refreshTTL time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret is empty")
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Manager{
		secret:     secret,
		method:     jwt.SigningMethodHS256,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		Now:        time.Now,
	}, nil
}

// TTL returns the configured validity window for the given kind.
func (m *Manager) TTL(kind TokenKind) time.Duration {
	if kind == KindRefresh {
		return m.refreshTTL
	}
	return m.accessTTL
}

// Issue signs a token of the given kind for the user.
func (m *Manager) Issue(user *models.User, kind TokenKind) (string, error) {
	now := m.Now()
	claims := &Claims{
		UserID:    user.ID,
		UserName:  user.UserName,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL(kind))),
		},
	}
	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, structure and expiry, and decodes the claims.
// It does NOT check the token kind; callers compare Claims.TokenType against
// the kind they expect.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}), jwt.WithTimeFunc(m.Now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if claims.TokenType != KindAccess && claims.TokenType != KindRefresh {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
