package handler

import (
	"context"
	"io"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/model"
)

// SummaryService defines summary creation and management operations.
type SummaryService interface {
	Create(ctx context.Context, params model.CreateSummaryParams) (model.VideoSummary, error)
	List(ctx context.Context, requester model.Principal) ([]model.VideoSummary, error)
	Get(ctx context.Context, requester model.Principal, id uuid.UUID) (model.VideoSummary, error)
	Delete(ctx context.Context, requester model.Principal, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, requester model.Principal, id uuid.UUID) (bool, error)
	SummarizeChannel(ctx context.Context, params model.ChannelParams) ([]model.VideoSummary, error)
	Archived(ctx context.Context, videoID string) (io.ReadCloser, error)
}

type createSummaryRequest struct {
	VideoURL string `json:"videoUrl" validate:"required"`
	Language string `json:"language" validate:"omitempty,min=2,max=5"`
}

type channelRequest struct {
	ChannelID string `json:"channelId" validate:"required"`
	MaxVideos int    `json:"maxVideos" validate:"omitempty,min=1,max=50"`
	Language  string `json:"language" validate:"omitempty,min=2,max=5"`
}

// Video handles HTTP endpoints for video summaries.
type Video struct {
	summaryService SummaryService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewVideo creates a new Video handler.
func NewVideo(summaryService SummaryService, contextManager model.ContextManager, logger *logger.Logger) *Video {
	return &Video{
		summaryService: summaryService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// CreateSummary returns the summary of a video, generating it on first request.
func (h *Video) CreateSummary(c fiber.Ctx) error {
	var req createSummaryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	summary, err := h.summaryService.Create(c.Context(), model.CreateSummaryParams{
		URL:       req.VideoURL,
		Language:  req.Language,
		Requester: h.principal(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    newSummaryView(summary),
	})
}

// MySummaries lists the summaries owned by the requester.
func (h *Video) MySummaries(c fiber.Ctx) error {
	summaries, err := h.summaryService.List(c.Context(), h.principal(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"count":     len(summaries),
		"summaries": newSummaryViews(summaries),
	})
}

func (h *Video) GetSummary(c fiber.Ctx) error {
	id, err := summaryID(c)
	if err != nil {
		return err
	}

	summary, err := h.summaryService.Get(c.Context(), h.principal(c), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    newSummaryView(summary),
	})
}

func (h *Video) DeleteSummary(c fiber.Ctx) error {
	id, err := summaryID(c)
	if err != nil {
		return err
	}

	if err := h.summaryService.Delete(c.Context(), h.principal(c), id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Summary deleted successfully",
	})
}

func (h *Video) ToggleFavorite(c fiber.Ctx) error {
	id, err := summaryID(c)
	if err != nil {
		return err
	}

	favorite, err := h.summaryService.ToggleFavorite(c.Context(), h.principal(c), id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"isFavorite": favorite,
	})
}

// SummarizeChannel summarizes the latest videos of a channel.
func (h *Video) SummarizeChannel(c fiber.Ctx) error {
	var req channelRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	summaries, err := h.summaryService.SummarizeChannel(c.Context(), model.ChannelParams{
		ChannelID: req.ChannelID,
		MaxVideos: req.MaxVideos,
		Language:  req.Language,
		Requester: h.principal(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"count":     len(summaries),
		"summaries": newSummaryViews(summaries),
	})
}

func (h *Video) principal(c fiber.Ctx) model.Principal {
	principal, _ := h.contextManager.GetPrincipalFromContext(c.Context())
	return principal
}

func summaryID(c fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apierror.NewErrInvalidID(raw)
	}
	return id, nil
}
