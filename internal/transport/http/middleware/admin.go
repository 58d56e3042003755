package middleware

import (
	"partnership-teams/config"
	"partnership-teams/internal/transport/http/dto"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HeaderUserEmail carries the caller's email.
const HeaderUserEmail = "X-User-Email"

// RequireAdmin rejects callers whose email is not listed in admin.emails.
func RequireAdmin(admin config.AdminConfig, log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.Get(HeaderUserEmail)
		if !admin.IsAdmin(email) {
			log.Warnw("admin route rejected", "path", c.Path(), "email", email)
			return c.Status(fiber.StatusForbidden).JSON(dto.NewError(dto.CodeForbidden, "administrator access required"))
		}
		return c.Next()
	}
}
