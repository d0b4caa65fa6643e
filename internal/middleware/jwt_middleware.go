package middleware

import (
	"log"
	"strings"

	"lolitems/internal/apperror"
	"lolitems/internal/models"
	"lolitems/internal/services"

	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

// ActiveRequired is a Fiber middleware that resolves the bearer token into
// a user, rejects deactivated accounts and stores the user in the request
// locals.
func ActiveRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolve(c, authService)
		if err == nil {
			_, err = authService.RequireActive(user)
		}
		if err != nil {
			return RespondError(c, err)
		}

		// Store the user in Fiber context for subsequent handlers
		c.Locals(userKey, user)
		return c.Next()
	}
}

// CurrentUser returns the user stored by ActiveRequired.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userKey).(*models.User)
	return user, ok && user != nil
}

func resolve(c *fiber.Ctx, authService *services.AuthService) (*models.User, error) {
	tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	user, err := authService.ResolveIdentity(c.UserContext(), tokenString)
	if err != nil {
		log.Printf("JWT validation failed: %v", err)
		return nil, err
	}
	return user, nil
}

// bearerToken extracts the token from "Bearer <token>". The scheme is
// case-insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
