package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"ems-backend/internal/adapters/persistence/models"
	"ems-backend/internal/adapters/persistence/repositories"
	"ems-backend/internal/core/domain"
	"ems-backend/internal/pkg/export"

	"gorm.io/gorm"
)

// UnknownEmployeeName is shown for records whose employee no longer exists
const UnknownEmployeeName = "Unknown"

// AttendanceService handles clock-in/clock-out, listings and exports
type AttendanceService struct {
	attendanceRepo repositories.AttendanceRepository
	employeeRepo   repositories.EmployeeRepository
	now            func() time.Time
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(
	attendanceRepo repositories.AttendanceRepository,
	employeeRepo repositories.EmployeeRepository,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		now:            time.Now,
	}
}

// ClockIn opens a session for the employee
func (s *AttendanceService) ClockIn(ctx context.Context, employeeID string) (*models.Attendance, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, domain.ErrEmployeeIDRequired
	}

	// 1. Reject a second open session
	_, err := s.attendanceRepo.GetOpenByEmployeeID(ctx, employeeID)
	switch {
	case err == nil:
		return nil, domain.ErrAlreadyClockedIn
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.Internal("failed to check open session", err)
	}

	// 2. Insert; the store rejects a concurrent open session
	record := &models.Attendance{
		EmployeeID: employeeID,
		ClockIn:    s.now(),
	}
	if err := s.attendanceRepo.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyClockedIn
		}
		return nil, domain.Internal("failed to clock in", err)
	}

	log.Printf("✅ Clock-in: %s (%s)", employeeID, record.ID)
	return record, nil
}

// ClockOut closes an open session and stores its duration
func (s *AttendanceService) ClockOut(ctx context.Context, attendanceID string) (*models.Attendance, error) {
	record, err := s.attendanceRepo.GetByID(ctx, strings.TrimSpace(attendanceID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAttendanceNotFound
		}
		return nil, domain.Internal("failed to get attendance record", err)
	}

	if !record.IsOpen() {
		return nil, domain.ErrAlreadyClockedOut
	}

	clockOut := s.now()
	hours := domain.HoursBetween(record.ClockIn, clockOut)

	closed, err := s.attendanceRepo.Close(ctx, record.ID, clockOut, hours)
	if err != nil {
		return nil, domain.Internal("failed to clock out", err)
	}
	if !closed {
		return nil, domain.ErrAlreadyClockedOut
	}

	record.ClockOut = &clockOut
	record.TotalHours = hours
	record.OpenKey = nil

	log.Printf("✅ Clock-out: %s (%s, %.2fh)", record.EmployeeID, record.ID, hours)
	return record, nil
}

// GetForEmployee lists an employee's records in insertion order; an empty result is an error
func (s *AttendanceService) GetForEmployee(ctx context.Context, employeeID string) ([]*models.AttendanceResponse, error) {
	records, err := s.attendanceRepo.ListByEmployeeID(ctx, strings.TrimSpace(employeeID))
	if err != nil {
		return nil, domain.Internal("failed to fetch attendance", err)
	}
	if len(records) == 0 {
		return nil, domain.ErrNoAttendanceRecords
	}

	out := make([]*models.AttendanceResponse, len(records))
	for i, r := range records {
		out[i] = r.ToResponse()
	}
	return out, nil
}

// GetAll lists records matching the filter with employee names resolved; an empty result is an error
func (s *AttendanceService) GetAll(ctx context.Context, filter domain.AttendanceFilter) ([]*models.AttendanceResponse, error) {
	records, names, err := s.listWithNames(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*models.AttendanceResponse, len(records))
	for i, r := range records {
		out[i] = r.ToResponse()
		out[i].EmployeeName = nameOf(names, r.EmployeeID)
	}
	return out, nil
}

// MarkAttendance inserts an administrative record; totalHours is computed when clockOut is given
func (s *AttendanceService) MarkAttendance(ctx context.Context, input *MarkAttendanceInput) (*models.Attendance, error) {
	employeeID := strings.TrimSpace(input.EmployeeID)
	if employeeID == "" || strings.TrimSpace(input.ClockIn) == "" {
		return nil, domain.ErrMarkFieldsRequired
	}

	clockIn, err := domain.ParseTimestamp(input.ClockIn)
	if err != nil {
		return nil, err
	}

	record := &models.Attendance{
		EmployeeID: employeeID,
		ClockIn:    clockIn,
	}

	if strings.TrimSpace(input.ClockOut) != "" {
		clockOut, err := domain.ParseTimestamp(input.ClockOut)
		if err != nil {
			return nil, err
		}
		if clockOut.Before(clockIn) {
			return nil, domain.ErrClockOutBeforeIn
		}
		record.ClockOut = &clockOut
		record.TotalHours = domain.HoursBetween(clockIn, clockOut)
	}

	if err := s.attendanceRepo.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrAlreadyClockedIn
		}
		return nil, domain.Internal("failed to mark attendance", err)
	}

	log.Printf("✅ Attendance marked: %s (%s)", employeeID, record.ID)
	return record, nil
}

// ExportRows returns the records matching the filter as export rows; an empty result is an error
func (s *AttendanceService) ExportRows(ctx context.Context, filter domain.AttendanceFilter) ([]export.Row, error) {
	records, names, err := s.listWithNames(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := make([]export.Row, len(records))
	for i, r := range records {
		rows[i] = export.Row{
			EmployeeID: r.EmployeeID,
			Name:       nameOf(names, r.EmployeeID),
			ClockIn:    r.ClockIn,
			ClockOut:   r.ClockOut,
			TotalHours: r.TotalHours,
		}
	}
	return rows, nil
}

func (s *AttendanceService) listWithNames(ctx context.Context, filter domain.AttendanceFilter) ([]*models.Attendance, map[string]string, error) {
	records, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, domain.Internal("failed to fetch attendance records", err)
	}
	if len(records) == 0 {
		return nil, nil, domain.ErrNoAttendanceRecords
	}

	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.EmployeeID]; !ok {
			seen[r.EmployeeID] = struct{}{}
			ids = append(ids, r.EmployeeID)
		}
	}

	names, err := s.employeeRepo.NamesByEmployeeIDs(ctx, ids)
	if err != nil {
		return nil, nil, domain.Internal("failed to resolve employee names", err)
	}
	return records, names, nil
}

func nameOf(names map[string]string, employeeID string) string {
	if name, ok := names[employeeID]; ok {
		return name
	}
	return UnknownEmployeeName
}
