package jwt

import (
	"errors"
	"time"

	"ems-backend/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is the fixed validity window of an issued token
const DefaultTTL = 24 * time.Hour

const issuer = "ems-backend"

// ErrSecretRequired is returned when no signing secret is configured
var ErrSecretRequired = errors.New("jwt signing secret is required")

// Claims represents the JWT claims
type Claims struct {
	PrincipalID string      `json:"id"`
	Role        domain.Role `json:"role"`
	EmployeeID  string      `json:"employeeId,omitempty"`
	jwt.RegisteredClaims
}

// Principal returns the decoded principal
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{
		ID:         c.PrincipalID,
		Role:       c.Role,
		EmployeeID: c.EmployeeID,
	}
}

// Manager issues and verifies HS256 tokens with a process-wide secret
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewManager creates a token manager; an empty secret is rejected
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for the principal; employeeID is only embedded when set
func (m *Manager) Issue(principalID string, role domain.Role, employeeID string) (string, error) {
	now := m.now()
	claims := Claims{
		PrincipalID: principalID,
		Role:        role,
		EmployeeID:  employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   principalID,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", domain.Internal("failed to sign token", err)
	}
	return signed, nil
}

// Verify validates a token and returns its claims.
// Bad signatures, malformed input and expiry yield domain.ErrTokenInvalid;
// a valid token without principal id or role yields domain.ErrTokenMalformed.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	if claims.PrincipalID == "" || claims.Role == "" {
		return nil, domain.ErrTokenMalformed
	}

	return claims, nil
}
