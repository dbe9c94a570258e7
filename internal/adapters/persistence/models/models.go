package models

import (
	"strconv"
	"time"

	"ems-backend/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================================
// Credential tables
// ============================================================

// Admin represents admins table
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Phone     string    `gorm:"uniqueIndex;size:30;not null" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Admin) TableName() string {
	return "admins"
}

// AdminResponse DTO
type AdminResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (a *Admin) ToResponse() *AdminResponse {
	return &AdminResponse{
		ID:    a.ID,
		Name:  a.Name,
		Phone: a.Phone,
	}
}

func (a *Admin) ToPrincipal() *Principal {
	return &Principal{
		ID:       a.ID,
		Role:     domain.RoleAdmin,
		Name:     a.Name,
		Phone:    a.Phone,
		Password: a.Password,
	}
}

// Employee represents employees table
type Employee struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	EmployeeID string    `gorm:"uniqueIndex;size:20;not null" json:"employeeId"`
	Seq        uint      `gorm:"uniqueIndex;not null" json:"-"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Phone      string    `gorm:"uniqueIndex;size:30;not null" json:"phone"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Employee) TableName() string {
	return "employees"
}

// EmployeeResponse DTO (never carries the password hash)
type EmployeeResponse struct {
	EmployeeID string    `json:"employeeId"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (e *Employee) ToResponse() *EmployeeResponse {
	return &EmployeeResponse{
		EmployeeID: e.EmployeeID,
		Name:       e.Name,
		Phone:      e.Phone,
		CreatedAt:  e.CreatedAt,
	}
}

func (e *Employee) ToPrincipal() *Principal {
	return &Principal{
		ID:         e.ID,
		Role:       domain.RoleEmployee,
		Name:       e.Name,
		Phone:      e.Phone,
		Password:   e.Password,
		EmployeeID: e.EmployeeID,
	}
}

// Principal is the kind-independent view of an Admin or Employee record
type Principal struct {
	ID         uint
	Role       domain.Role
	Name       string
	Phone      string
	Password   string
	EmployeeID string
}

// TokenSubject returns the principal id embedded in tokens
func (p *Principal) TokenSubject() string {
	return strconv.FormatUint(uint64(p.ID), 10)
}

// EmployeeSequence names the sequences row backing employee ids
const EmployeeSequence = "employee_id"

// Sequence represents sequences table; one row per named counter
type Sequence struct {
	Name  string `gorm:"primaryKey;size:50"`
	Value uint   `gorm:"not null"`
}

func (Sequence) TableName() string {
	return "sequences"
}

// ============================================================
// Attendance table
// ============================================================

// Attendance represents attendances table.
// OpenKey equals EmployeeID while the session is open and is NULL once closed;
// its unique index allows at most one open session per employee.
type Attendance struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	EmployeeID string     `gorm:"index;size:20;not null" json:"employeeId"`
	ClockIn    time.Time  `gorm:"index;not null" json:"clockIn"`
	ClockOut   *time.Time `json:"clockOut"`
	TotalHours float64    `gorm:"not null;default:0" json:"totalHours"`
	OpenKey    *string    `gorm:"uniqueIndex;size:20" json:"-"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Attendance) TableName() string {
	return "attendances"
}

// BeforeCreate assigns the record id and the open-session key
func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.ClockOut == nil {
		key := a.EmployeeID
		a.OpenKey = &key
	} else {
		a.OpenKey = nil
	}
	return nil
}

// IsOpen reports whether the session has no clock-out yet
func (a *Attendance) IsOpen() bool {
	return a.ClockOut == nil
}

// AttendanceResponse DTO
type AttendanceResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName,omitempty"`
	ClockIn      time.Time  `json:"clockIn"`
	ClockOut     *time.Time `json:"clockOut"`
	TotalHours   float64    `json:"totalHours"`
}

func (a *Attendance) ToResponse() *AttendanceResponse {
	return &AttendanceResponse{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		ClockIn:    a.ClockIn,
		ClockOut:   a.ClockOut,
		TotalHours: a.TotalHours,
	}
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Admin{},
		&Employee{},
		&Sequence{},
		&Attendance{},
	)
}
