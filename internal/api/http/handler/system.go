package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/model"
)

const healthTimeout = 2 * time.Second

// System serves the API banner and the health probe.
type System struct {
	store   model.Pinger
	version string
	logger  *logger.Logger
}

func NewSystem(store model.Pinger, version string, logger *logger.Logger) *System {
	return &System{store: store, version: version, logger: logger}
}

func (h *System) Root(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "VideoBite API",
		"version": h.version,
	})
}

// Health reports 503 when the store does not answer a ping.
func (h *System) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "System handler: store ping failed",
			"error", err.Error())
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}

	return c.JSON(fiber.Map{"status": "ok"})
}
