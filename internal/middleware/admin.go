package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/service"
	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// AdminOnly restricts a route group to administrative accounts. The check
// fails closed: a missing user id, an unknown account or a lookup failure
// all refuse access.
func AdminOnly(authorizer service.Authorizer, logger zerolog.Logger) fiber.Handler {
	adminLogger := logger.With().Str("component", "admin_middleware").Logger()

	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals("user_id").(uint)
		if !ok || userID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentification requise")
		}

		isAdmin, err := authorizer.IsAdmin(c.Context(), userID)
		if err != nil {
			adminLogger.Error().Err(err).Uint("user_id", userID).Msg("failed to resolve admin access")
			return utils.SendError(c, fiber.StatusInternalServerError, "une erreur est survenue")
		}

		if !isAdmin {
			return utils.SendError(c, fiber.StatusForbidden, service.ErrAccessDenied.Error())
		}

		return c.Next()
	}
}
