package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/service"
	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// ModuleHandler handles module management endpoints, including the nested
// séance listing and the teacher assignment sub-resource.
type ModuleHandler struct {
	service     service.ModuleService
	seances     service.SeanceService
	assignments service.AssignmentService
	logger      zerolog.Logger
}

// NewModuleHandler constructs the handler.
func NewModuleHandler(service service.ModuleService, seances service.SeanceService, assignments service.AssignmentService, logger zerolog.Logger) *ModuleHandler {
	return &ModuleHandler{
		service:     service,
		seances:     seances,
		assignments: assignments,
		logger:      logger.With().Str("component", "module_handler").Logger(),
	}
}

// Register wires routes for modules.
func (h *ModuleHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Get("/:id/seances", h.listSeances)
	router.Get("/:id/enseignants", h.listTeachers)
	router.Post("/:id/enseignants/:teacherId", h.assignTeacher)
	router.Delete("/:id/enseignants/:teacherId", h.unassignTeacher)
}

func (h *ModuleHandler) list(c *fiber.Ctx) error {
	req, err := listRequestFromQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var filiereID *uint
	if raw, err := parseQueryInt(c, "filiereId"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "paramètre filiereId invalide")
	} else if raw > 0 {
		id := uint(raw)
		filiereID = &id
	}

	result, err := h.service.List(c.Context(), req, filiereID)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des modules")
	}

	return utils.SendSuccess(c, "modules récupérés", result)
}

func (h *ModuleHandler) create(c *fiber.Ctx) error {
	var payload dto.ModuleCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Create(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la création du module")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "module créé", result)
}

func (h *ModuleHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement du module")
	}

	return utils.SendSuccess(c, "module récupéré", result)
}

func (h *ModuleHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ModuleUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Update(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la mise à jour du module")
	}

	return utils.SendSuccess(c, "module mis à jour", result)
}

func (h *ModuleHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, activityActorFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la suppression du module")
	}

	return utils.SendSuccess(c, "module supprimé", nil)
}

func (h *ModuleHandler) listSeances(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.seances.ListByModule(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des séances")
	}

	return utils.SendSuccess(c, "séances récupérées", result)
}

func (h *ModuleHandler) listTeachers(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.assignments.ModuleTeachers(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des enseignants")
	}

	return utils.SendSuccess(c, "enseignants récupérés", result)
}

func (h *ModuleHandler) assignTeacher(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	teacherID, err := parseUintParam(c, "teacherId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.assignments.AssignTeacherToModule(c.Context(), id, teacherID, activityActorFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de l'affectation de l'enseignant")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enseignant affecté au module", nil)
}

func (h *ModuleHandler) unassignTeacher(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	teacherID, err := parseUintParam(c, "teacherId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.assignments.UnassignTeacherFromModule(c.Context(), id, teacherID, activityActorFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du retrait de l'enseignant")
	}

	return utils.SendSuccess(c, "enseignant retiré du module", nil)
}
