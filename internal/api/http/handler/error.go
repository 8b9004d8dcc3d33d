package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/logger"
)

// ErrorHandler renders every error as {success:false, message}. Outside
// production the underlying error text is added under "error".
func ErrorHandler(logger *logger.Logger, production bool) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal server error"
		var details []string

		var fiberErr *fiber.Error
		if apiErr, ok := apierror.As(err); ok {
			status, message, details = apiErr.Status, apiErr.Message, apiErr.Details
		} else if errors.As(err, &fiberErr) {
			status, message = fiberErr.Code, fiberErr.Message
		}

		if status >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.Context(), "HTTP handler: request failed",
				"path", c.Path(),
				"request_id", requestid.FromContext(c),
				"error", err.Error())
		}

		body := fiber.Map{
			"success": false,
			"message": message,
		}
		if len(details) > 1 {
			body["errors"] = details
		}
		if !production {
			body["error"] = err.Error()
		}

		return c.Status(status).JSON(body)
	}
}
