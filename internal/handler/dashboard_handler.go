package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/service"
	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// DashboardHandler exposes the aggregated dashboard counters.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register wires the dashboard routes.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/stats", h.stats)
}

func (h *DashboardHandler) stats(c *fiber.Ctx) error {
	result, err := h.service.GetStats(c.Context())
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec du chargement du tableau de bord")
	}

	return utils.SendSuccess(c, "statistiques récupérées", result)
}
