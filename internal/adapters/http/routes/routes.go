package routes

import (
	"ems-backend/internal/adapters/http/handlers"
	"ems-backend/internal/adapters/http/middleware"
	"ems-backend/internal/adapters/persistence/repositories"
	"ems-backend/internal/config"
	"ems-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Tokens both issues and verifies tokens
type Tokens interface {
	services.TokenIssuer
	middleware.TokenVerifier
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, tokens Tokens) {
	// Initialize repositories
	adminRepo := repositories.NewAdminRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)

	// Initialize services
	authService := services.NewAuthService(adminRepo, employeeRepo, tokens)
	employeeService := services.NewEmployeeService(employeeRepo)
	attendanceService := services.NewAttendanceService(attendanceRepo, employeeRepo)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	employeeHandler := handlers.NewEmployeeHandler(authService, employeeService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	adminHandler := handlers.NewAdminHandler(authService, attendanceService, dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api", middleware.NoCacheHeaders())
	Register(api, tokens, cfg.Limits, authHandler, employeeHandler, attendanceHandler, adminHandler)
}

// Register mounts the API routes on router
func Register(
	router fiber.Router,
	tokens middleware.TokenVerifier,
	limits config.RateLimitConfig,
	authHandler *handlers.AuthHandler,
	employeeHandler *handlers.EmployeeHandler,
	attendanceHandler *handlers.AttendanceHandler,
	adminHandler *handlers.AdminHandler,
) {
	setupAuthRoutes(router.Group("/auth"), authHandler, limits)
	setupEmployeeRoutes(router.Group("/employees"), employeeHandler, tokens, limits)
	setupAttendanceRoutes(router.Group("/attendance", middleware.AuthMiddleware(tokens)), attendanceHandler)
	setupAdminRoutes(router.Group("/admin"), adminHandler, tokens, limits)
}

// setupAuthRoutes configures role-parameterised authentication routes (public)
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, limits config.RateLimitConfig) {
	router.Post("/register", handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(limits), handler.Login)
	router.Post("/forgot-password", middleware.AuthRateLimiter(limits), handler.ForgotPassword)
}

// setupEmployeeRoutes configures employee routes
func setupEmployeeRoutes(router fiber.Router, handler *handlers.EmployeeHandler, tokens middleware.TokenVerifier, limits config.RateLimitConfig) {
	admin := middleware.AdminOnly(tokens)

	// Public routes
	router.Post("/register", handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(limits), handler.Login)

	// Authenticated
	router.Get("/profile", middleware.AuthMiddleware(tokens), handler.GetProfile)

	// Admin only
	router.Get("/", admin, handler.ListEmployees)
	router.Put("/update/:employeeId", admin, handler.UpdateEmployee)
	router.Delete("/delete/:employeeId", admin, handler.DeleteEmployee)
	router.Post("/reset-password/:employeeId", admin, handler.ResetPassword)
	router.Get("/:employeeId", admin, handler.GetEmployee)
}

// setupAttendanceRoutes configures attendance routes (Authenticated)
func setupAttendanceRoutes(router fiber.Router, handler *handlers.AttendanceHandler) {
	router.Post("/clock-in", handler.ClockIn)
	router.Put("/clock-out/:attendanceId", handler.ClockOut)
	router.Get("/", handler.ListAttendance)
	router.Get("/:employeeId", handler.GetForEmployee)
}

// setupAdminRoutes configures admin routes
func setupAdminRoutes(router fiber.Router, handler *handlers.AdminHandler, tokens middleware.TokenVerifier, limits config.RateLimitConfig) {
	admin := middleware.AdminOnly(tokens)

	// Public routes
	router.Post("/register", handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(limits), handler.Login)

	// Admin only
	router.Get("/dashboard", admin, handler.Dashboard)
	router.Get("/attendance", admin, handler.ListAttendance)
	router.Post("/mark-attendance", admin, handler.MarkAttendance)
	router.Get("/export-attendance", admin, handler.ExportAttendance)
}
