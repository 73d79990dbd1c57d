package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/service"
	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// FiliereHandler handles filière management endpoints.
type FiliereHandler struct {
	service service.FiliereService
	logger  zerolog.Logger
}

// NewFiliereHandler constructs the handler.
func NewFiliereHandler(service service.FiliereService, logger zerolog.Logger) *FiliereHandler {
	return &FiliereHandler{
		service: service,
		logger:  logger.With().Str("component", "filiere_handler").Logger(),
	}
}

// Register wires routes for filières.
func (h *FiliereHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *FiliereHandler) list(c *fiber.Ctx) error {
	req, err := listRequestFromQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var departementID *uint
	if raw, err := parseQueryInt(c, "departementId"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "paramètre departementId invalide")
	} else if raw > 0 {
		id := uint(raw)
		departementID = &id
	}

	result, err := h.service.List(c.Context(), req, departementID)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des filières")
	}

	return utils.SendSuccess(c, "filières récupérées", result)
}

func (h *FiliereHandler) create(c *fiber.Ctx) error {
	var payload dto.FiliereCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Create(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la création de la filière")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "filière créée", result)
}

func (h *FiliereHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement de la filière")
	}

	return utils.SendSuccess(c, "filière récupérée", result)
}

func (h *FiliereHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FiliereUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Update(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la mise à jour de la filière")
	}

	return utils.SendSuccess(c, "filière mise à jour", result)
}

func (h *FiliereHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, activityActorFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la suppression de la filière")
	}

	return utils.SendSuccess(c, "filière supprimée", nil)
}
