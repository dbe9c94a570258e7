package jwt

import (
	"errors"
	"testing"
	"time"

	"ems-backend/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", DefaultTTL)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("", DefaultTTL); !errors.Is(err, ErrSecretRequired) {
		t.Fatalf("got %v, want ErrSecretRequired", err)
	}
}

func TestIssueVerify(t *testing.T) {
	m := newTestManager(t)

	token, err := m.Issue("7", domain.RoleEmployee, "MST3")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	want := domain.Principal{ID: "7", Role: domain.RoleEmployee, EmployeeID: "MST3"}
	if got := claims.Principal(); got != want {
		t.Fatalf("principal = %+v, want %+v", got, want)
	}
	if exp := claims.ExpiresAt.Sub(claims.IssuedAt.Time); exp != DefaultTTL {
		t.Errorf("validity = %s, want %s", exp, DefaultTTL)
	}
}

func TestVerifyRejects(t *testing.T) {
	m := newTestManager(t)

	other, err := NewManager("other-secret", DefaultTTL)
	if err != nil {
		t.Fatal(err)
	}
	foreign, _ := other.Issue("1", domain.RoleAdmin, "")

	stale := newTestManager(t)
	stale.now = func() time.Time { return time.Now().Add(-25 * time.Hour) }
	expired, _ := stale.Issue("1", domain.RoleAdmin, "")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong secret", foreign},
		{"expired", expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.Verify(tt.token); !errors.Is(err, domain.ErrTokenInvalid) {
				t.Fatalf("got %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestVerifyMissingRoleIsMalformed(t *testing.T) {
	m := newTestManager(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Verify(signed); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("got %v, want ErrTokenMalformed", err)
	}
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	m := newTestManager(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"id":   "1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Verify(signed); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("got %v, want ErrTokenInvalid", err)
	}
}
