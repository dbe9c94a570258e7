package middleware

import (
	"errors"
	"time"

	"ems-backend/internal/config"
	"ems-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// rateWindow is the span every request budget applies to
const rateWindow = time.Minute

const allowedMethods = "GET,POST,PUT,DELETE,OPTIONS"
const allowedHeaders = "Origin,Content-Type,Accept,Authorization"

// Setup installs the global middleware chain
func Setup(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	app.Use(securityHeaders())
	app.Use(RateLimiter(cfg.Limits.General, "", "Too many requests, please slow down"))
	app.Use(requestLogger(cfg))
	app.Use(corsFor(cfg))
}

// AuthRateLimiter is the stricter per-IP budget for credential endpoints
func AuthRateLimiter(cfg config.RateLimitConfig) fiber.Handler {
	return RateLimiter(cfg.Login, "-auth", "Too many login attempts, please wait a minute")
}

// RateLimiter admits max requests per IP per minute. Limiters sharing a
// suffix share nothing else; each call owns its own counters.
func RateLimiter(max int, suffix, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: rateWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + suffix
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.TooManyRequests(c, message)
		},
	})
}

// CustomErrorHandler renders anything a handler returned instead of writing
// a response. Domain errors keep their mapped status.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Code, fe.Message)
	}
	return response.FromError(c, err, "Internal Server Error")
}

func securityHeaders() fiber.Handler {
	return helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "SAMEORIGIN",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		PermissionPolicy:          "geolocation=(), microphone=(), camera=()",
	})
}

func requestLogger(cfg *config.Config) fiber.Handler {
	if cfg.IsDev() {
		return logger.New(logger.Config{
			Format: "${time} | ${status} | ${latency} | ${method} | ${path}\n",
		})
	}
	return logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: time.DateTime,
	})
}

// corsFor opens every origin in dev; credentials cannot be combined with "*"
func corsFor(cfg *config.Config) fiber.Handler {
	origins := cfg.GetAllowedOrigins()
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     allowedMethods,
		AllowHeaders:     allowedHeaders,
		AllowCredentials: origins != "*",
	})
}
