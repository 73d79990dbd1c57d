package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/service"
	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// RoleHandler handles role management endpoints.
type RoleHandler struct {
	service service.RoleService
	logger  zerolog.Logger
}

// NewRoleHandler constructs the handler.
func NewRoleHandler(service service.RoleService, logger zerolog.Logger) *RoleHandler {
	return &RoleHandler{
		service: service,
		logger:  logger.With().Str("component", "role_handler").Logger(),
	}
}

// Register wires routes for roles.
func (h *RoleHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *RoleHandler) list(c *fiber.Ctx) error {
	if roleType := strings.TrimSpace(c.Query("type")); roleType != "" {
		result, err := h.service.ListByType(c.Context(), roleType)
		if err != nil {
			return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des rôles")
		}
		return utils.SendSuccess(c, "rôles récupérés", result)
	}

	req, err := listRequestFromQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des rôles")
	}

	return utils.SendSuccess(c, "rôles récupérés", result)
}

func (h *RoleHandler) create(c *fiber.Ctx) error {
	var payload dto.RoleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Create(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la création du rôle")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "rôle créé", result)
}

func (h *RoleHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement du rôle")
	}

	return utils.SendSuccess(c, "rôle récupéré", result)
}

func (h *RoleHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RoleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Update(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la mise à jour du rôle")
	}

	return utils.SendSuccess(c, "rôle mis à jour", result)
}

func (h *RoleHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, activityActorFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la suppression du rôle")
	}

	return utils.SendSuccess(c, "rôle supprimé", nil)
}
