package middlewares

import (
	"investmanager.com/permissions"
	"investmanager.com/types"

	"github.com/gofiber/fiber/v2"
)

// RequireCapability rejects callers that permissions.Decide does not allow
// for resource. It must run after the JWT middleware.
func RequireCapability(resource permissions.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.Response{
				Success: false,
				Error:   "Unauthorized",
			})
		}

		if d := permissions.Decide(actor, resource, types.NoAccess); !d.Allowed {
			return c.Status(fiber.StatusForbidden).JSON(types.Response{
				Success: false,
				Error:   d.Reason,
			})
		}
		return c.Next()
	}
}
