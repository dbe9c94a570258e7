package services

import (
	"ems-backend/internal/core/domain"
)

// TokenIssuer signs tokens for authenticated principals
type TokenIssuer interface {
	Issue(principalID string, role domain.Role, employeeID string) (string, error)
}

// Input DTOs

// RegisterInput represents registration input for either principal kind
type RegisterInput struct {
	Name     string
	Phone    string
	Password string
	Role     string
}

// LoginInput represents login input
type LoginInput struct {
	Phone    string
	Password string
	Role     string
}

// ForgotPasswordInput represents a self-service password replacement
type ForgotPasswordInput struct {
	Phone       string
	NewPassword string
	Role        string
}

// UpdateEmployeeInput represents a partial employee update; nil or empty keeps the stored value
type UpdateEmployeeInput struct {
	Name  *string
	Phone *string
}

// MarkAttendanceInput represents an administrative attendance entry
type MarkAttendanceInput struct {
	EmployeeID string
	ClockIn    string
	ClockOut   string
}
