package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/benmouhabdel/heec-manager/internal/dto"
	"github.com/benmouhabdel/heec-manager/internal/service"
	"github.com/benmouhabdel/heec-manager/internal/utils"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the public login route; RegisterProtected wires logout,
// which needs an authenticated caller.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.login)
}

// RegisterProtected wires routes that require a valid token.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Post("/logout", h.logout)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "corps de requête invalide")
	}

	result, err := h.service.Login(c.Context(), payload, activityActorFromContext(c))
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "échec de la connexion")
	}

	return utils.SendSuccess(c, "connexion réussie", result)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	h.service.Logout(c.Context(), activityActorFromContext(c))
	return utils.SendSuccess(c, "déconnexion réussie", nil)
}
