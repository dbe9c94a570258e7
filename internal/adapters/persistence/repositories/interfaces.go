package repositories

import (
	"context"
	"time"

	"ems-backend/internal/adapters/persistence/models"
	"ems-backend/internal/core/domain"
)

// PrincipalStore is the lookup/creation surface shared by admins and employees.
// AuthService selects an implementation by domain.Role.
type PrincipalStore interface {
	FindByPhone(ctx context.Context, phone string) (*models.Principal, error)
	CreatePrincipal(ctx context.Context, name, phone, passwordHash string) (*models.Principal, error)
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
}

// AdminRepository defines admin repository interface
type AdminRepository interface {
	PrincipalStore
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByPhone(ctx context.Context, phone string) (*models.Admin, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// EmployeeRepository defines employee repository interface
type EmployeeRepository interface {
	PrincipalStore
	// Create assigns the next employee id atomically and persists the record
	Create(ctx context.Context, employee *models.Employee) error
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Employee, error)
	GetByPhone(ctx context.Context, phone string) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	DeleteByEmployeeID(ctx context.Context, employeeID string) error
	List(ctx context.Context, offset, limit int) ([]*models.Employee, int64, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	NamesByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string]string, error)
}

// AttendanceRepository defines attendance repository interface
type AttendanceRepository interface {
	// Create fails with gorm.ErrDuplicatedKey if the record is open and the employee already has an open record
	Create(ctx context.Context, record *models.Attendance) error
	GetByID(ctx context.Context, id string) (*models.Attendance, error)
	GetOpenByEmployeeID(ctx context.Context, employeeID string) (*models.Attendance, error)
	// Close sets clock-out only if the record is still open; it reports whether a row changed
	Close(ctx context.Context, id string, clockOut time.Time, totalHours float64) (bool, error)
	ListByEmployeeID(ctx context.Context, employeeID string) ([]*models.Attendance, error)
	List(ctx context.Context, filter domain.AttendanceFilter) ([]*models.Attendance, error)
	ListOpenStartedBefore(ctx context.Context, before time.Time) ([]*models.Attendance, error)
}
