package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"ems-backend/internal/adapters/persistence/models"
	"ems-backend/internal/adapters/persistence/repositories"
	"ems-backend/internal/core/domain"
	"ems-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// AuthService handles registration, login and password replacement for admins and employees
type AuthService struct {
	stores map[domain.Role]repositories.PrincipalStore
	tokens TokenIssuer
}

// NewAuthService creates a new auth service
func NewAuthService(
	adminRepo repositories.AdminRepository,
	employeeRepo repositories.EmployeeRepository,
	tokens TokenIssuer,
) *AuthService {
	return &AuthService{
		stores: map[domain.Role]repositories.PrincipalStore{
			domain.RoleAdmin:    adminRepo,
			domain.RoleEmployee: employeeRepo,
		},
		tokens: tokens,
	}
}

// AuthResult represents a successful login
type AuthResult struct {
	Token     string
	Principal *models.Principal
}

// store resolves the principal store for a role string
func (s *AuthService) store(role string) (domain.Role, repositories.PrincipalStore, error) {
	r, err := domain.ParseRole(role)
	if err != nil {
		return "", nil, err
	}
	return r, s.stores[r], nil
}

// Register registers a new admin or employee.
// Employees receive their MSTn identifier from the repository.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.Principal, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" || phone == "" || input.Password == "" || strings.TrimSpace(input.Role) == "" {
		return nil, domain.ErrAllFieldsRequired
	}

	role, store, err := s.store(input.Role)
	if err != nil {
		return nil, err
	}

	// 1. Check if phone already registered for this kind
	_, err = store.FindByPhone(ctx, phone)
	switch {
	case err == nil:
		return nil, domain.ErrPhoneRegistered
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.Internal("failed to look up phone", err)
	}

	// 2. Hash password
	if password.TooLong(input.Password) {
		return nil, domain.ErrPasswordTooLong
	}
	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, domain.Internal("failed to hash password", err)
	}

	// 3. Create principal
	principal, err := store.CreatePrincipal(ctx, name, phone, hashed)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrPhoneRegistered
		}
		return nil, domain.Internal("failed to create "+role.String(), err)
	}

	if principal.EmployeeID != "" {
		log.Printf("✅ Employee registered: %s (%s)", principal.EmployeeID, principal.Name)
	} else {
		log.Printf("✅ %s registered: %s", role, principal.Name)
	}
	return principal, nil
}

// Authenticate checks phone and password against the store for the role
func (s *AuthService) Authenticate(ctx context.Context, phone, pw, role string) (*models.Principal, error) {
	_, store, err := s.store(role)
	if err != nil {
		return nil, err
	}

	principal, err := store.FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, domain.Internal("failed to look up principal", err)
	}

	if !password.Verify(pw, principal.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	return principal, nil
}

// Login authenticates and issues a token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResult, error) {
	if strings.TrimSpace(input.Phone) == "" || input.Password == "" || strings.TrimSpace(input.Role) == "" {
		return nil, domain.ErrAllFieldsRequired
	}

	principal, err := s.Authenticate(ctx, input.Phone, input.Password, input.Role)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(principal.TokenSubject(), principal.Role, principal.EmployeeID)
	if err != nil {
		return nil, domain.Internal("failed to issue token", err)
	}

	log.Printf("✅ %s logged in: %s", principal.Role, principal.Phone)
	return &AuthResult{
		Token:     token,
		Principal: principal,
	}, nil
}

// ForgotPassword replaces the password of the principal registered under phone
func (s *AuthService) ForgotPassword(ctx context.Context, input *ForgotPasswordInput) error {
	phone := strings.TrimSpace(input.Phone)
	if phone == "" || input.NewPassword == "" || strings.TrimSpace(input.Role) == "" {
		return domain.ErrAllFieldsRequired
	}

	_, store, err := s.store(input.Role)
	if err != nil {
		return err
	}

	principal, err := store.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPrincipalNotFound
		}
		return domain.Internal("failed to look up principal", err)
	}

	if password.TooLong(input.NewPassword) {
		return domain.ErrPasswordTooLong
	}
	hashed, err := password.Hash(input.NewPassword)
	if err != nil {
		return domain.Internal("failed to hash password", err)
	}

	if err := store.UpdatePassword(ctx, principal.ID, hashed); err != nil {
		return domain.Internal("failed to update password", err)
	}

	log.Printf("✅ Password reset for %s %s", principal.Role, principal.Phone)
	return nil
}
