package services

import (
	"context"
	"time"

	"ems-backend/internal/adapters/persistence/models"
	"ems-backend/internal/core/domain"

	"gorm.io/gorm"
)

// DashboardService handles dashboard operations
type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	TotalAdmins    int64 `json:"totalAdmins"`
	TotalEmployees int64 `json:"totalEmployees"`

	// Sessions currently open
	OpenSessions int64 `json:"openSessions"`

	// Sessions whose clock-in falls on the current UTC day
	SessionsToday int64   `json:"sessionsToday"`
	HoursToday    float64 `json:"hoursToday"`

	RecentAttendance []*models.AttendanceResponse `json:"recentAttendance"`
}

// recentLimit is how many of the latest sessions the dashboard shows
const recentLimit = 10

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context) (*AdminDashboardData, error) {
	data := &AdminDashboardData{}
	db := s.db.WithContext(ctx)

	// Principal counts
	if err := db.Model(&models.Admin{}).Count(&data.TotalAdmins).Error; err != nil {
		return nil, domain.Internal("failed to count admins", err)
	}
	if err := db.Model(&models.Employee{}).Count(&data.TotalEmployees).Error; err != nil {
		return nil, domain.Internal("failed to count employees", err)
	}

	// Open sessions
	if err := db.Model(&models.Attendance{}).Where("clock_out IS NULL").Count(&data.OpenSessions).Error; err != nil {
		return nil, domain.Internal("failed to count open sessions", err)
	}

	// Today
	startOfDay := s.now().UTC().Truncate(24 * time.Hour)
	if err := db.Model(&models.Attendance{}).Where("clock_in >= ?", startOfDay).Count(&data.SessionsToday).Error; err != nil {
		return nil, domain.Internal("failed to count today's sessions", err)
	}
	if err := db.Model(&models.Attendance{}).
		Where("clock_in >= ?", startOfDay).
		Select("COALESCE(SUM(total_hours), 0)").
		Scan(&data.HoursToday).Error; err != nil {
		return nil, domain.Internal("failed to sum today's hours", err)
	}

	// Recent attendance
	var recent []models.Attendance
	if err := db.Order("clock_in DESC").Limit(recentLimit).Find(&recent).Error; err != nil {
		return nil, domain.Internal("failed to load recent attendance", err)
	}
	data.RecentAttendance = make([]*models.AttendanceResponse, 0, len(recent))
	for i := range recent {
		data.RecentAttendance = append(data.RecentAttendance, recent[i].ToResponse())
	}

	return data, nil
}
