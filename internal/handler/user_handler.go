package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/service"
	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// UserHandler handles account management endpoints, including activation
// toggling, role membership and the filière assignment shortcut.
type UserHandler struct {
	service     service.UserService
	assignments service.AssignmentService
	seances     service.SeanceService
	logger      zerolog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(service service.UserService, assignments service.AssignmentService, seances service.SeanceService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service:     service,
		assignments: assignments,
		seances:     seances,
		logger:      logger.With().Str("component", "user_handler").Logger(),
	}
}

// Register wires routes for users.
func (h *UserHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/enseignants", h.listTeachers)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Patch("/:id/statut", h.toggleStatus)
	router.Get("/:id/seances", h.listSeances)
	router.Post("/:id/roles/:roleId", h.assignRole)
	router.Delete("/:id/roles/:roleId", h.removeRole)
	router.Post("/:id/filiere/:filiereId", h.assignFiliere)
}

func (h *UserHandler) list(c *fiber.Ctx) error {
	req, err := listRequestFromQuery(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var opts service.UserListOptions
	switch strings.ToLower(strings.TrimSpace(c.Query("actif"))) {
	case "true":
		value := true
		opts.Actif = &value
	case "false":
		value := false
		opts.Actif = &value
	}
	if raw, err := parseQueryInt(c, "departementId"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "identifiant de département invalide")
	} else if raw > 0 {
		value := uint(raw)
		opts.DepartementID = &value
	}
	if raw, err := parseQueryInt(c, "filiereId"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "identifiant de filière invalide")
	} else if raw > 0 {
		value := uint(raw)
		opts.FiliereID = &value
	}

	result, err := h.service.List(c.Context(), req, opts)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des utilisateurs")
	}

	return utils.SendSuccess(c, "utilisateurs récupérés", result)
}

func (h *UserHandler) listTeachers(c *fiber.Ctx) error {
	result, err := h.service.ListTeachers(c.Context())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des enseignants")
	}

	return utils.SendSuccess(c, "enseignants récupérés", result)
}

func (h *UserHandler) create(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Create(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la création de l'utilisateur")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "utilisateur créé", result)
}

func (h *UserHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Get(c.Context(), id)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement de l'utilisateur")
	}

	return utils.SendSuccess(c, "utilisateur récupéré", result)
}

func (h *UserHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.UserUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Update(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la mise à jour de l'utilisateur")
	}

	return utils.SendSuccess(c, "utilisateur mis à jour", result)
}

func (h *UserHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, activityActorFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la suppression de l'utilisateur")
	}

	return utils.SendSuccess(c, "utilisateur supprimé", nil)
}

func (h *UserHandler) toggleStatus(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.ToggleActiveStatus(c.Context(), id, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du changement de statut")
	}

	message := "compte désactivé"
	if result.Actif {
		message = "compte activé"
	}

	return utils.SendSuccess(c, message, result)
}

func (h *UserHandler) listSeances(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.seances.ListByTeacher(c.Context(), id, nil, nil)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement des séances")
	}

	return utils.SendSuccess(c, "séances récupérées", result)
}

func (h *UserHandler) assignRole(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	roleID, err := parseUintParam(c, "roleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.AssignRole(c.Context(), id, roleID, activityActorFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de l'attribution du rôle")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "rôle attribué", nil)
}

func (h *UserHandler) removeRole(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	roleID, err := parseUintParam(c, "roleId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.RemoveRole(c.Context(), id, roleID, activityActorFromContext(c)); err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du retrait du rôle")
	}

	return utils.SendSuccess(c, "rôle retiré", nil)
}

func (h *UserHandler) assignFiliere(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	filiereID, err := parseUintParam(c, "filiereId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.assignments.AssignTeacherToFiliere(c.Context(), filiereID, id, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de l'affectation à la filière")
	}

	return utils.SendSuccess(c, "enseignant affecté à la filière", result)
}
