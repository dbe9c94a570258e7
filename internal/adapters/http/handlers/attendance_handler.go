package handlers

import (
	"ems-backend/internal/adapters/http/middleware"
	"ems-backend/internal/core/domain"
	"ems-backend/internal/core/services"
	"ems-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AttendanceHandler handles the clock-in/clock-out ledger endpoints
type AttendanceHandler struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceService: attendanceService,
	}
}

// ClockInRequest represents clock-in request body
type ClockInRequest struct {
	EmployeeID string `json:"employeeId"`
}

// ClockIn opens a session
// @Summary Clock in
// @Description Open an attendance session; employeeId defaults to the caller's own
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ClockInRequest false "Employee to clock in"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /attendance/clock-in [post]
func (h *AttendanceHandler) ClockIn(c *fiber.Ctx) error {
	var req ClockInRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	employeeID := req.EmployeeID
	if employeeID == "" {
		if principal, ok := middleware.PrincipalFrom(c); ok {
			employeeID = principal.EmployeeID
		}
	}

	record, err := h.attendanceService.ClockIn(c.Context(), employeeID)
	if err != nil {
		return response.FromError(c, err, "Error clocking in")
	}

	return response.Created(c, "Clock-in successful", fiber.Map{
		"attendance": record.ToResponse(),
	})
}

// ClockOut closes a session
// @Summary Clock out
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param attendanceId path string true "Attendance ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /attendance/clock-out/{attendanceId} [put]
func (h *AttendanceHandler) ClockOut(c *fiber.Ctx) error {
	record, err := h.attendanceService.ClockOut(c.Context(), c.Params("attendanceId"))
	if err != nil {
		return response.FromError(c, err, "Error clocking out")
	}

	return response.Success(c, "Clock-out successful", fiber.Map{
		"attendance": record.ToResponse(),
	})
}

// GetForEmployee lists one employee's sessions
// @Summary Get attendance of an employee
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /attendance/{employeeId} [get]
func (h *AttendanceHandler) GetForEmployee(c *fiber.Ctx) error {
	records, err := h.attendanceService.GetForEmployee(c.Context(), c.Params("employeeId"))
	if err != nil {
		return response.FromError(c, err, "Error fetching attendance")
	}

	return response.Success(c, "Attendance retrieved successfully", fiber.Map{
		"attendance": records,
	})
}

// ListAttendance lists sessions matching the query filters
// @Summary List attendance
// @Description Filter by employeeId and clock-in range; sortBy=date sorts by clock-in, anything else by total hours
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param employeeId query string false "Employee ID"
// @Param startDate query string false "Earliest clock-in (YYYY-MM-DD or RFC3339)"
// @Param endDate query string false "Latest clock-in (YYYY-MM-DD or RFC3339)"
// @Param sortBy query string false "date or hours"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /attendance [get]
func (h *AttendanceHandler) ListAttendance(c *fiber.Ctx) error {
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

func filterFromQuery(c *fiber.Ctx) (domain.AttendanceFilter, error) {
	return domain.NewAttendanceFilter(
		c.Query("employeeId"),
		c.Query("startDate"),
		c.Query("endDate"),
		c.Query("sortBy"),
	)
}
