package handlers

import (
	"errors"

	"ems-backend/internal/adapters/persistence/models"
	"ems-backend/internal/core/domain"
	"ems-backend/internal/core/services"
	"ems-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles the role-parameterised authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ForgotPasswordRequest represents forgot password request body
type ForgotPasswordRequest struct {
	Phone       string `json:"phone"`
	NewPassword string `json:"newPassword"`
	Role        string `json:"role"`
}

// Register handles admin or employee registration
// @Summary Register admin or employee
// @Description Register a new principal; role is "admin" or "employee"
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	principal, err := h.authService.Register(c.Context(), &services.RegisterInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return response.FromError(c, err, "Registration failed")
	}

	return response.Created(c, "Registration successful", principalBody(principal))
}

// Login handles admin or employee login
// @Summary Login
// @Description Authenticate by phone, password and role and return a token valid for one day
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.Login(c.Context(), &services.LoginInput{
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return loginError(c, err, "User not found")
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token": result.Token,
	})
}

// ForgotPassword handles password replacement by phone
// @Summary Forgot password
// @Description Replace the password of the principal registered with the phone number
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "Phone, role and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.authService.ForgotPassword(c.Context(), &services.ForgotPasswordInput{
		Phone:       req.Phone,
		NewPassword: req.NewPassword,
		Role:        req.Role,
	})
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return response.BadRequest(c, "User not found")
		}
		return response.FromError(c, err, "Password reset failed")
	}

	return response.Success(c, "Password reset successfully", nil)
}

// loginError keeps the unknown-phone case at 400, distinct from the 401 of a wrong password
func loginError(c *fiber.Ctx, err error, notFoundMessage string) error {
	if errors.Is(err, domain.ErrPrincipalNotFound) {
		return response.BadRequest(c, notFoundMessage)
	}
	return response.FromError(c, err, "Login failed")
}

// principalBody renders a principal without its password hash
func principalBody(p *models.Principal) fiber.Map {
	body := fiber.Map{
		"role":  p.Role,
		"name":  p.Name,
		"phone": p.Phone,
	}
	if p.EmployeeID != "" {
		body["employeeId"] = p.EmployeeID
	}
	return body
}
