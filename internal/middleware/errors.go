package middleware

import (
	"errors"
	"log"

	"lolitems/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// RespondError writes err as a JSON body with the status of its taxonomy
// class. Errors outside the taxonomy are reported as a storage failure.
func RespondError(c *fiber.Ctx, err error) error {
	status := apperror.HTTPStatus(err)
	body := fiber.Map{"message": err.Error()}

	var verr *apperror.ValidationError
	switch {
	case errors.As(err, &verr):
		body["message"] = apperror.ErrValidation.Error()
		body["errors"] = verr.Fields
	case status == fiber.StatusUnauthorized:
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		body["message"] = apperror.ErrUnauthorized.Error()
	case status == fiber.StatusInternalServerError:
		body["message"] = apperror.ErrStorage.Error()
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler is installed as the Fiber app error handler. It renders
// framework errors such as unknown routes with their own status and
// everything else through RespondError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{"message": ferr.Message})
	}
	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return RespondError(c, err)
}
