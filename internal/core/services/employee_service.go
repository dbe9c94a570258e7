package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"ems-backend/internal/adapters/persistence/models"
	"ems-backend/internal/adapters/persistence/repositories"
	"ems-backend/internal/core/domain"
	"ems-backend/internal/pkg/pagination"
	"ems-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// EmployeeService handles employee management business logic
type EmployeeService struct {
	employeeRepo repositories.EmployeeRepository
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(employeeRepo repositories.EmployeeRepository) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
	}
}

// ListEmployeesOutput represents list employees output; Meta is nil when unpaginated
type ListEmployeesOutput struct {
	Employees []*models.EmployeeResponse `json:"employees"`
	Meta      *pagination.Meta           `json:"meta,omitempty"`
}

// ListEmployees lists employees; nil params returns every employee
func (s *EmployeeService) ListEmployees(ctx context.Context, params *pagination.Params) (*ListEmployeesOutput, error) {
	offset, limit := 0, 0
	if params != nil {
		offset, limit = params.Offset, params.Limit
	}

	employees, total, err := s.employeeRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, domain.Internal("failed to list employees", err)
	}

	out := &ListEmployeesOutput{
		Employees: make([]*models.EmployeeResponse, len(employees)),
	}
	for i, e := range employees {
		out.Employees[i] = e.ToResponse()
	}
	if params != nil {
		out.Meta = pagination.GetMeta(params, total)
	}
	return out, nil
}

// GetEmployee gets an employee by employee id
func (s *EmployeeService) GetEmployee(ctx context.Context, employeeID string) (*models.EmployeeResponse, error) {
	employee, err := s.find(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return employee.ToResponse(), nil
}

// GetProfile gets the caller's own profile
func (s *EmployeeService) GetProfile(ctx context.Context, principal domain.Principal) (*models.EmployeeResponse, error) {
	if principal.EmployeeID == "" {
		return nil, domain.ErrEmployeeNotFound
	}
	return s.GetEmployee(ctx, principal.EmployeeID)
}

// UpdateEmployee applies a partial update of name and phone
func (s *EmployeeService) UpdateEmployee(ctx context.Context, employeeID string, input *UpdateEmployeeInput) (*models.EmployeeResponse, error) {
	employee, err := s.find(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			employee.Name = name
		}
	}

	if input.Phone != nil {
		if phone := strings.TrimSpace(*input.Phone); phone != "" && phone != employee.Phone {
			exists, err := s.employeeRepo.ExistsByPhone(ctx, phone)
			if err != nil {
				return nil, domain.Internal("failed to look up phone", err)
			}
			if exists {
				return nil, domain.ErrPhoneRegistered
			}
			employee.Phone = phone
		}
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrPhoneRegistered
		}
		return nil, domain.Internal("failed to update employee", err)
	}

	log.Printf("✅ Employee updated: %s", employee.EmployeeID)
	return employee.ToResponse(), nil
}

// DeleteEmployee removes an employee. A missing employee is a successful no-op.
// Attendance records of the employee are kept.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, employeeID string) error {
	if err := s.employeeRepo.DeleteByEmployeeID(ctx, employeeID); err != nil {
		return domain.Internal("failed to delete employee", err)
	}
	log.Printf("✅ Employee deleted: %s", employeeID)
	return nil
}

// ResetPassword sets a new password for an employee (admin only)
func (s *EmployeeService) ResetPassword(ctx context.Context, employeeID, newPassword string) error {
	if !password.ValidatePassword(newPassword) {
		return domain.ErrPasswordTooShort
	}
	if password.TooLong(newPassword) {
		return domain.ErrPasswordTooLong
	}

	employee, err := s.find(ctx, employeeID)
	if err != nil {
		return err
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return domain.Internal("failed to hash password", err)
	}

	if err := s.employeeRepo.UpdatePassword(ctx, employee.ID, hashed); err != nil {
		return domain.Internal("failed to update password", err)
	}

	log.Printf("✅ Password reset for employee %s", employee.EmployeeID)
	return nil
}

func (s *EmployeeService) find(ctx context.Context, employeeID string) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetByEmployeeID(ctx, strings.TrimSpace(employeeID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, domain.Internal("failed to get employee", err)
	}
	return employee, nil
}
