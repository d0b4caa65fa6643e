package handlers

import (
	"log"

	"lolitems/internal/middleware"
	"lolitems/internal/models"
	"lolitems/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for token issuance. Accounts are created
// through the user routes by an active user.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/token", h.HandleToken)
}

// LoginRequest is accepted as an urlencoded form or as JSON.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleToken checks the credentials and issues a bearer token.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing token request body: %v", err)
		return badBody(c, err)
	}
	if err := models.Validate(req); err != nil {
		return middleware.RespondError(c, err)
	}

	token, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return middleware.RespondError(c, err)
	}

	return c.JSON(token)
}
