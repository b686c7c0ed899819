package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/request-portal/pkg/util"
)

// RequireAuthenticated ensures a caller is logged in.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAnalyst ensures the caller carries the analyst role.
func RequireAnalyst() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.User.IsAnalyst {
			return apperrors.NewForbidden("analyst role required")
		}
		return c.Next()
	}
}
