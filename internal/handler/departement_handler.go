package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/service"
	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// DepartementHandler handles département management endpoints.
type DepartementHandler struct {
	service service.DepartementService
	logger  zerolog.Logger
}

// NewDepartementHandler constructs the handler.
func NewDepartementHandler(service service.DepartementService, logger zerolog.Logger) *DepartementHandler {
	return &DepartementHandler{
		service: service,
		logger:  logger.With().Str("component", "departement_handler").Logger(),
	}
}

// Register wires routes for départements.
func (h *DepartementHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Get("/:id/stats", h.stats)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *DepartementHandler) list(c *fiber.Ctx) error {
	req, err := listRequestFromQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des départements")
	}

	return utils.SendSuccess(c, "départements récupérés", result)
}

func (h *DepartementHandler) create(c *fiber.Ctx) error {
	var payload dto.DepartementCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Create(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la création du département")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "département créé", result)
}

func (h *DepartementHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement du département")
	}

	return utils.SendSuccess(c, "département récupéré", result)
}

func (h *DepartementHandler) stats(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Stats(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des statistiques")
	}

	return utils.SendSuccess(c, "statistiques récupérées", result)
}

func (h *DepartementHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DepartementUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Update(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la mise à jour du département")
	}

	return utils.SendSuccess(c, "département mis à jour", result)
}

func (h *DepartementHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, activityActorFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la suppression du département")
	}

	return utils.SendSuccess(c, "département supprimé", nil)
}
