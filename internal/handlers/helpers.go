package handlers

import (
	"net/url"

	"lolitems/internal/apperror"
	"lolitems/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func badBody(c *fiber.Ctx, err error) error {
	return middleware.RespondError(c, apperror.NewValidationError(map[string]string{
		"body": "invalid request body: " + err.Error(),
	}))
}

// pathName decodes a name route parameter, since item names may contain
// spaces.
func pathName(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
