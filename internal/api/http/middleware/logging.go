package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/logger"
)

// Logging logs HTTP requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// Handle logs method, path, duration and status for each request.
func (l *Logging) Handle(c fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = statusOf(err)
	}

	attrs := []any{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestid.FromContext(c),
		"ip", c.IP(),
	}

	switch {
	case status >= fiber.StatusInternalServerError:
		l.logger.ErrorContext(c.Context(), "HTTP request failed", append(attrs, "error", errString(err))...)
	case err != nil:
		l.logger.InfoContext(c.Context(), "HTTP request rejected", append(attrs, "error", errString(err))...)
	default:
		l.logger.InfoContext(c.Context(), "HTTP request completed", attrs...)
	}

	return err
}

func statusOf(err error) int {
	if apiErr, ok := apierror.As(err); ok {
		return apiErr.Status
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return fiber.StatusInternalServerError
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
