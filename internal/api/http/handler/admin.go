package handler

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v3"

	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/metrics"
	"github.com/dtroode/videobite-server/internal/youtube"
)

// ArchiveService opens archived summarizer output.
type ArchiveService interface {
	Archived(ctx context.Context, videoID string) (io.ReadCloser, error)
}

// Admin handles operator endpoints.
type Admin struct {
	archive ArchiveService
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewAdmin(archive ArchiveService, m *metrics.Metrics, logger *logger.Logger) *Admin {
	return &Admin{archive: archive, metrics: m, logger: logger}
}

// Metrics renders the counters as text, one per line.
func (h *Admin) Metrics(c fiber.Ctx) error {
	c.Type("txt", "utf-8")
	return c.SendString(h.metrics.Format())
}

// Archive streams the raw summarizer output stored for a video.
func (h *Admin) Archive(c fiber.Ctx) error {
	videoID := c.Params("videoId")
	if !youtube.IsValidID(videoID) {
		return apierror.NewErrValidation("invalid video id")
	}

	rc, err := h.archive.Archived(c.Context(), videoID)
	if err != nil {
		return err
	}

	c.Type("json")
	// The response closes rc once the body is written.
	return c.SendStream(rc)
}
