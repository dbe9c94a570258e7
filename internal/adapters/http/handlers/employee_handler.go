package handlers

import (
	"ems-backend/internal/adapters/http/middleware"
	"ems-backend/internal/core/domain"
	"ems-backend/internal/core/services"
	"ems-backend/internal/pkg/pagination"
	"ems-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	authService     *services.AuthService
	employeeService *services.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(authService *services.AuthService, employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		authService:     authService,
		employeeService: employeeService,
	}
}

// EmployeeRegisterRequest represents employee registration request body
type EmployeeRegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// CredentialsRequest represents a phone/password login body
type CredentialsRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UpdateEmployeeRequest represents update employee request body
type UpdateEmployeeRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// ResetPasswordRequest represents reset password request body
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// Register handles employee registration
// @Summary Register employee
// @Description Register an employee; the employee id (MSTn) is assigned by the server
// @Tags Employees
// @Accept json
// @Produce json
// @Param body body EmployeeRegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /employees/register [post]
func (h *EmployeeHandler) Register(c *fiber.Ctx) error {
	var req EmployeeRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	principal, err := h.authService.Register(c.Context(), &services.RegisterInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     domain.RoleEmployee.String(),
	})
	if err != nil {
		return response.FromError(c, err, "Employee registration failed")
	}

	return response.Created(c, "Employee registered successfully", fiber.Map{
		"employee": fiber.Map{
			"employeeId": principal.EmployeeID,
			"name":       principal.Name,
			"phone":      principal.Phone,
		},
	})
}

// Login handles employee login
// @Summary Employee login
// @Tags Employees
// @Accept json
// @Produce json
// @Param body body CredentialsRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /employees/login [post]
func (h *EmployeeHandler) Login(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.Context(), &services.LoginInput{
		Phone:    req.Phone,
		Password: req.Password,
		Role:     domain.RoleEmployee.String(),
	})
	if err != nil {
		return loginError(c, err, "Employee not found")
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token": result.Token,
		"employee": fiber.Map{
			"employeeId": result.Principal.EmployeeID,
			"name":       result.Principal.Name,
			"phone":      result.Principal.Phone,
		},
	})
}

// GetProfile returns the caller's own employee record
// @Summary Get own profile
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /employees/profile [get]
func (h *EmployeeHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	employee, err := h.employeeService.GetProfile(c.Context(), principal)
	if err != nil {
		return response.FromError(c, err, "Failed to fetch profile")
	}

	return response.Success(c, "Profile retrieved successfully", fiber.Map{
		"employee": employee,
	})
}

// ListEmployees handles listing employees (Admin only)
// @Summary List employees
// @Description List all employees; page/limit enable pagination
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /employees [get]
func (h *EmployeeHandler) ListEmployees(c *fiber.Ctx) error {
	result, err := h.employeeService.ListEmployees(c.Context(), pagination.GetParams(c))
	if err != nil {
		return response.FromError(c, err, "Failed to fetch employees")
	}

	return response.Success(c, "Employees retrieved successfully", result)
}

// GetEmployee handles getting an employee by employee id (Admin only)
// @Summary Get employee
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /employees/{employeeId} [get]
func (h *EmployeeHandler) GetEmployee(c *fiber.Ctx) error {
	employee, err := h.employeeService.GetEmployee(c.Context(), c.Params("employeeId"))
	if err != nil {
		return response.FromError(c, err, "Failed to fetch employee")
	}

	return response.Success(c, "Employee retrieved successfully", fiber.Map{
		"employee": employee,
	})
}

// UpdateEmployee handles a partial update of name/phone (Admin only)
// @Summary Update employee
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee ID"
// @Param body body UpdateEmployeeRequest true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /employees/update/{employeeId} [put]
func (h *EmployeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	var req UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	employee, err := h.employeeService.UpdateEmployee(c.Context(), c.Params("employeeId"), &services.UpdateEmployeeInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		return response.FromError(c, err, "Error updating employee")
	}

	return response.Success(c, "Employee updated successfully", fiber.Map{
		"employee": employee,
	})
}

// DeleteEmployee handles deleting an employee (Admin only)
// @Summary Delete employee
// @Description Deletes the employee; succeeds even when the employee does not exist
// @Tags Employees
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee ID"
// @Success 200 {object} response.Response
// @Router /employees/delete/{employeeId} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *fiber.Ctx) error {
	if err := h.employeeService.DeleteEmployee(c.Context(), c.Params("employeeId")); err != nil {
		return response.FromError(c, err, "Error deleting employee")
	}

	return response.Success(c, "Employee deleted successfully", nil)
}

// ResetPassword handles an admin-initiated password reset
// @Summary Reset employee password
// @Tags Employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param employeeId path string true "Employee ID"
// @Param body body ResetPasswordRequest true "New password (min 6 characters)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /employees/reset-password/{employeeId} [post]
func (h *EmployeeHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.employeeService.ResetPassword(c.Context(), c.Params("employeeId"), req.NewPassword); err != nil {
		return response.FromError(c, err, "Error resetting password")
	}

	return response.Success(c, "Employee password reset successfully", nil)
}
