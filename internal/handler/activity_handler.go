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

// ActivityHandler exposes the audit trail to administrators.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register wires the activity log routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "paramètre page invalide")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "paramètre pageSize invalide")
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	userID, err := parseQueryInt(c, "userId")
	if err != nil || userID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "paramètre userId invalide")
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		UserID:     uint(userID),
		Action:     strings.TrimSpace(c.Query("action")),
		EntityType: strings.TrimSpace(c.Query("entityType")),
	}

	if raw := strings.TrimSpace(c.Query("dateFrom")); raw != "" {
		from, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "paramètre dateFrom invalide")
		}
		req.DateFrom = &from
	}

	if raw := strings.TrimSpace(c.Query("dateTo")); raw != "" {
		to, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "paramètre dateTo invalide")
		}
		// Inclusive upper bound: cover the whole requested day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		req.DateTo = &end
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement du journal d'activité")
	}

	return utils.SendSuccess(c, "journal d'activité récupéré", result)
}
