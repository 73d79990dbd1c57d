package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/service"
	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// sendServiceError maps business-rule sentinels onto HTTP statuses. Anything
// not recognised is logged and answered with a generic 500 so internal
// details never leak to clients.
func sendServiceError(c *fiber.Ctx, logger *zerolog.Logger, err error, fallback string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, "données invalides: "+err.Error())

	case errors.Is(err, service.ErrDepartementNotFound),
		errors.Is(err, service.ErrFiliereNotFound),
		errors.Is(err, service.ErrModuleNotFound),
		errors.Is(err, service.ErrSeanceNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoleNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())

	case service.IsDependentsError(err),
		errors.Is(err, service.ErrScheduleConflict),
		errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrHasFutureSessions),
		errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, err.Error())

	case errors.Is(err, service.ErrAccessDenied),
		errors.Is(err, service.ErrSelfModification):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDisabled):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrNotATeacher),
		errors.Is(err, service.ErrTeacherNotEligible),
		errors.Is(err, service.ErrNotAssigned),
		errors.Is(err, service.ErrInvalidSeanceWindow),
		errors.Is(err, service.ErrInvalidSeanceType),
		errors.Is(err, service.ErrInvalidRoleType):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())

	default:
		logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
