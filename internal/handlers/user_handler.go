package handlers

import (
	"fmt"
	"log"

	"lolitems/internal/apperror"
	"lolitems/internal/middleware"
	"lolitems/internal/models"
	"lolitems/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for user accounts. Every route requires
// an active user.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRoutes registers the user routes behind guard.
func (h *UserHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	users := router.Group("/users", guard)
	users.Get("/me", h.Me)
	users.Put("/deactivate/:name", h.DeactivateUser)
	users.Get("/:name", h.GetUser)
	users.Post("/", h.CreateUser)
	users.Put("/:name", h.UpdateUser)
	users.Delete("/:name", h.DeleteUser)
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return middleware.RespondError(c, apperror.ErrUnauthorized)
	}
	return c.JSON(user)
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.UserContext(), pathName(c, "name"))
	if err != nil {
		return middleware.RespondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var in models.UserInput
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing user request body: %v", err)
		return badBody(c, err)
	}

	name, err := h.userService.CreateUser(c.UserContext(), in)
	if err != nil {
		log.Printf("Error creating user %s: %v", in.UserName, err)
		return middleware.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "User created successfully",
		"user_name": name,
	})
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	name := pathName(c, "name")
	var in models.UserUpdate
	if err := c.BodyParser(&in); err != nil {
		log.Printf("Error parsing user request body: %v", err)
		return badBody(c, err)
	}

	updated, err := h.userService.UpdateUser(c.UserContext(), name, in)
	if err != nil {
		log.Printf("Error updating user %s: %v", name, err)
		return middleware.RespondError(c, err)
	}
	return c.JSON(updated)
}

func (h *UserHandler) DeactivateUser(c *fiber.Ctx) error {
	name := pathName(c, "name")
	updated, err := h.userService.DeactivateUser(c.UserContext(), name)
	if err != nil {
		log.Printf("Error deactivating user %s: %v", name, err)
		return middleware.RespondError(c, err)
	}
	return c.JSON(updated)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	name := pathName(c, "name")
	if err := h.userService.DeleteUser(c.UserContext(), name); err != nil {
		log.Printf("Error deleting user %s: %v", name, err)
		return middleware.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("User %s deleted successfully", name),
	})
}
