// Package auth issues and verifies the bearer tokens that carry a caller's identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jnst/race-registration/internal/model"
)

const issuer = "race-registration"

var errInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller.
type Identity struct {
	Email string
	Role  model.Role
}

// IsAdmin reports whether the caller is an administrator.
func (i Identity) IsAdmin() bool {
	return i.Role == model.RoleAdministrator
}

// Claims are the JWT claims of an access token. The subject is the user's email.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 tokens with a shared secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a token manager. An empty secret is rejected.
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("JWT secret not configured")
	}

	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for the identity.
func (m *Manager) Issue(id Identity) (string, error) {
	now := m.now()
	claims := Claims{
		Role: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses a token and returns the identity it carries.
func (m *Manager) Verify(tokenStr string) (Identity, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", model.ErrUnauthenticated, err)
	}

	role := model.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return Identity{}, fmt.Errorf("%w: %w", model.ErrUnauthenticated, errInvalidToken)
	}

	return Identity{Email: claims.Subject, Role: role}, nil
}
