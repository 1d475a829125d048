package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-service/internal/domain"
	apperrors "github.com/spec-kit/store-service/pkg/util/errorutil"
)

// RequireRole ensures the authenticated caller holds at least min. It must run
// after AuthMiddleware.Handle.
func RequireRole(min domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("a token is required for authentication")
		}
		if !claims.Role().Satisfies(min) {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}
