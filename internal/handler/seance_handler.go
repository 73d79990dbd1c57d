package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/service"
	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// SeanceHandler handles séance scheduling endpoints.
type SeanceHandler struct {
	service service.SeanceService
	logger  zerolog.Logger
}

// NewSeanceHandler constructs the handler.
func NewSeanceHandler(service service.SeanceService, logger zerolog.Logger) *SeanceHandler {
	return &SeanceHandler{
		service: service,
		logger:  logger.With().Str("component", "seance_handler").Logger(),
	}
}

// Register wires routes for séances.
func (h *SeanceHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/disponibilites", h.availableTeachers)
	router.Get("/jour/:date", h.listByDate)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *SeanceHandler) list(c *fiber.Ctx) error {
	req, err := listRequestFromQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des séances")
	}

	return utils.SendSuccess(c, "séances récupérées", result)
}

func (h *SeanceHandler) create(c *fiber.Ctx) error {
	var payload dto.SeanceCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Create(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la création de la séance")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "séance créée", result)
}

func (h *SeanceHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement de la séance")
	}

	return utils.SendSuccess(c, "séance récupérée", result)
}

func (h *SeanceHandler) listByDate(c *fiber.Ctx) error {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(c.Params("date")), time.UTC)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "date invalide, format attendu AAAA-MM-JJ")
	}

	result, err := h.service.ListByDate(c.Context(), day)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des séances")
	}

	return utils.SendSuccess(c, "séances récupérées", result)
}

// availableTeachers answers "who can still take this slot": the module's
// eligible teachers without a conflicting séance on the candidate window.
func (h *SeanceHandler) availableTeachers(c *fiber.Ctx) error {
	moduleID, err := parseQueryInt(c, "moduleId")
	if err != nil || moduleID <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "paramètre moduleId invalide")
	}

	day, debut, fin, err := service.ParseSeanceWindow(c.Query("date"), c.Query("heureDebut"), c.Query("heureFin"))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "créneau invalide")
	}

	result, err := h.service.AvailableTeachers(c.Context(), uint(moduleID), day, debut, fin)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des disponibilités")
	}

	return utils.SendSuccess(c, "enseignants disponibles récupérés", result)
}

func (h *SeanceHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SeanceUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Update(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la mise à jour de la séance")
	}

	return utils.SendSuccess(c, "séance mise à jour", result)
}

func (h *SeanceHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, activityActorFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la suppression de la séance")
	}

	return utils.SendSuccess(c, "séance supprimée", nil)
}
