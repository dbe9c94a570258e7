package repositories

import (
	"context"
	"time"

	"ems-backend/internal/adapters/persistence/models"
	"ems-backend/internal/core/domain"

	"gorm.io/gorm"
)

// attendanceRepository implements AttendanceRepository interface
type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Create inserts a record; the open_key unique index rejects a second open session
func (r *attendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetByID gets a record by id
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (*models.Attendance, error) {
	var record models.Attendance
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetOpenByEmployeeID gets the employee's open session
func (r *attendanceRepository) GetOpenByEmployeeID(ctx context.Context, employeeID string) (*models.Attendance, error) {
	var record models.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("clock_out IS NULL").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Close is a conditional write: only an open record is updated
func (r *attendanceRepository) Close(ctx context.Context, id string, clockOut time.Time, totalHours float64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Attendance{}).
		Where("id = ?", id).
		Where("clock_out IS NULL").
		Updates(map[string]interface{}{
			"clock_out":   clockOut,
			"total_hours": totalHours,
			"open_key":    gorm.Expr("NULL"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ListByEmployeeID lists an employee's records in insertion order
func (r *attendanceRepository) ListByEmployeeID(ctx context.Context, employeeID string) ([]*models.Attendance, error) {
	var records []*models.Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// List applies the filter; ties keep insertion order
func (r *attendanceRepository) List(ctx context.Context, filter domain.AttendanceFilter) ([]*models.Attendance, error) {
	q := r.db.WithContext(ctx).Model(&models.Attendance{})

	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.StartDate != nil {
		q = q.Where("clock_in >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("clock_in <= ?", *filter.EndDate)
	}

	if filter.SortBy == domain.SortByDate {
		q = q.Order("clock_in ASC")
	} else {
		q = q.Order("total_hours ASC")
	}

	var records []*models.Attendance
	if err := q.Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListOpenStartedBefore lists open sessions that started before the given time
func (r *attendanceRepository) ListOpenStartedBefore(ctx context.Context, before time.Time) ([]*models.Attendance, error) {
	var records []*models.Attendance
	err := r.db.WithContext(ctx).
		Where("clock_out IS NULL").
		Where("clock_in < ?", before).
		Order("clock_in ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
