package middleware

import (
	"strings"

	"ems-backend/internal/core/domain"
	"ems-backend/internal/pkg/jwt"
	"ems-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// principalKey is the fiber.Locals key of the decoded principal
const principalKey = "principal"

// TokenVerifier validates bearer tokens
type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

// AuthMiddleware admits any principal holding a valid token
func AuthMiddleware(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := authenticate(c, tokens)
		if err != nil {
			return response.FromError(c, err, "Unauthorized")
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// AdminOnly admits only principals whose token carries the admin role
func AdminOnly(tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, err := authenticate(c, tokens)
		if err != nil {
			return response.FromError(c, err, "Unauthorized")
		}

		if !principal.IsAdmin() {
			return response.FromError(c, domain.ErrAdminOnly, "Forbidden")
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// PrincipalFrom returns the principal attached by AuthMiddleware or AdminOnly
func PrincipalFrom(c *fiber.Ctx) (domain.Principal, bool) {
	principal, ok := c.Locals(principalKey).(domain.Principal)
	return principal, ok
}

// authenticate extracts the bearer token and verifies it
func authenticate(c *fiber.Ctx, tokens TokenVerifier) (domain.Principal, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return domain.Principal{}, domain.ErrTokenMissing
	}

	accessToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if accessToken == "" {
		return domain.Principal{}, domain.ErrTokenMissing
	}

	claims, err := tokens.Verify(accessToken)
	if err != nil {
		return domain.Principal{}, err
	}

	return claims.Principal(), nil
}
