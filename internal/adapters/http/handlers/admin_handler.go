package handlers

import (
	"strings"

	"ems-backend/internal/adapters/http/middleware"
	"ems-backend/internal/core/domain"
	"ems-backend/internal/core/services"
	"ems-backend/internal/pkg/export"
	"ems-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const (
	exportBaseName  = "attendance_records"
	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AdminHandler handles admin endpoints
type AdminHandler struct {
	authService       *services.AuthService
	attendanceService *services.AttendanceService
	dashboardService  *services.DashboardService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	authService *services.AuthService,
	attendanceService *services.AttendanceService,
	dashboardService *services.DashboardService,
) *AdminHandler {
	return &AdminHandler{
		authService:       authService,
		attendanceService: attendanceService,
		dashboardService:  dashboardService,
	}
}

// AdminRegisterRequest represents admin registration request body
type AdminRegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// MarkAttendanceRequest represents an administrative attendance entry
type MarkAttendanceRequest struct {
	EmployeeID string `json:"employeeId"`
	ClockIn    string `json:"clockIn"`
	ClockOut   string `json:"clockOut"`
}

// Register handles admin registration
// @Summary Register admin
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body AdminRegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/register [post]
func (h *AdminHandler) Register(c *fiber.Ctx) error {
	var req AdminRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	principal, err := h.authService.Register(c.Context(), &services.RegisterInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     domain.RoleAdmin.String(),
	})
	if err != nil {
		return response.FromError(c, err, "Admin registration failed")
	}

	return response.Created(c, "Admin registered successfully", fiber.Map{
		"admin": fiber.Map{
			"name":  principal.Name,
			"phone": principal.Phone,
		},
	})
}

// Login handles admin login
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.Context(), &services.LoginInput{
		Phone:    req.Phone,
		Password: req.Password,
		Role:     domain.RoleAdmin.String(),
	})
	if err != nil {
		return loginError(c, err, "Admin not found")
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token": result.Token,
		"admin": fiber.Map{
			"name":  result.Principal.Name,
			"phone": result.Principal.Phone,
		},
	})
}

// Dashboard greets the authenticated admin with headcount and attendance statistics
// @Summary Admin dashboard
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	principal, _ := middleware.PrincipalFrom(c)

	stats, err := h.dashboardService.GetAdminDashboard(c.Context())
	if err != nil {
		return response.FromError(c, err, "Failed to load dashboard")
	}

	return response.Success(c, "Welcome to Admin Dashboard", fiber.Map{
		"user":  principal,
		"stats": stats,
	})
}

// ListAttendance lists sessions with employee names
// @Summary List attendance (admin)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param employeeId query string false "Employee ID"
// @Param startDate query string false "Earliest clock-in"
// @Param endDate query string false "Latest clock-in"
// @Param sortBy query string false "date or hours"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/attendance [get]
func (h *AdminHandler) ListAttendance(c *fiber.Ctx) error {
	filter, err := filterFromQuery(c)
	if err != nil {
		return response.FromError(c, err, "Invalid filter")
	}

	records, err := h.attendanceService.GetAll(c.Context(), filter)
	if err != nil {
		return response.FromError(c, err, "Error fetching attendance")
	}

	return response.Success(c, "Attendance retrieved successfully", fiber.Map{
		"attendance": records,
	})
}

// MarkAttendance records a session with explicit timestamps
// @Summary Mark attendance
// @Description Create a session; without clockOut the session stays open
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MarkAttendanceRequest true "Session data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/mark-attendance [post]
func (h *AdminHandler) MarkAttendance(c *fiber.Ctx) error {
	var req MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	record, err := h.attendanceService.MarkAttendance(c.Context(), &services.MarkAttendanceInput{
		EmployeeID: req.EmployeeID,
		ClockIn:    req.ClockIn,
		ClockOut:   req.ClockOut,
	})
	if err != nil {
		return response.FromError(c, err, "Error marking attendance")
	}

	return response.Created(c, "Attendance marked successfully", fiber.Map{
		"attendance": record.ToResponse(),
	})
}

// ExportAttendance downloads attendance as CSV or XLSX
// @Summary Export attendance
// @Description Columns: Employee ID, Name, Clock In, Clock Out, Total Hours. format=xlsx returns a workbook
// @Tags Admin
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "csv (default) or xlsx"
// @Param employeeId query string false "Employee ID"
// @Param startDate query string false "Earliest clock-in"
// @Param endDate query string false "Latest clock-in"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Router /admin/export-attendance [get]
func (h *AdminHandler) ExportAttendance(c *fiber.Ctx) error {
	filter, err := filterFromQuery(c)
	if err != nil {
		return response.FromError(c, err, "Invalid filter")
	}

	rows, err := h.attendanceService.ExportRows(c.Context(), filter)
	if err != nil {
		return response.FromError(c, err, "Error exporting attendance")
	}

	var (
		body        []byte
		contentType string
		filename    string
	)
	if strings.EqualFold(c.Query("format"), "xlsx") {
		body, err = export.ToXLSX(rows)
		contentType, filename = contentTypeXLSX, exportBaseName+".xlsx"
	} else {
		body, err = export.ToCSV(rows)
		contentType, filename = contentTypeCSV, exportBaseName+".csv"
	}
	if err != nil {
		return response.FromError(c, err, "Error exporting attendance")
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+filename)
	return c.Send(body)
}
