package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	appName string
	appEnv  string
}

// NewHealthHandler constructs the handler.
func NewHealthHandler(appName, appEnv string) *HealthHandler {
	return &HealthHandler{appName: appName, appEnv: appEnv}
}

// Register wires the health route.
func (h *HealthHandler) Register(router fiber.Router) {
	router.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "service opérationnel", fiber.Map{
		"app": h.appName,
		"env": h.appEnv,
	})
}
