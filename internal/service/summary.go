package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dtroode/videobite-server/internal/apierror"
	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/metrics"
	"github.com/dtroode/videobite-server/internal/model"
	"github.com/dtroode/videobite-server/internal/youtube"
)

const (
	defaultChannelVideos = 5
	maxChannelVideos     = 50
)

// ArchiveKey is the object key of the raw summarizer output for a video.
func ArchiveKey(videoID string) string {
	return "summaries/" + videoID + ".json"
}

// Summary orchestrates summary creation and the owner-scoped management
// operations. One summary is kept per video regardless of requester.
type Summary struct {
	store           model.SummaryStore
	fetcher         model.MetadataFetcher
	summarizer      model.Summarizer
	archive         model.Storage
	metrics         *metrics.Metrics
	defaultLanguage string
	logger          *logger.Logger

	flights singleflight.Group
	now     func() time.Time
}

// NewSummary creates the orchestrator. archive may be nil.
func NewSummary(
	store model.SummaryStore,
	fetcher model.MetadataFetcher,
	summarizer model.Summarizer,
	archive model.Storage,
	m *metrics.Metrics,
	defaultLanguage string,
	logger *logger.Logger,
) *Summary {
	if defaultLanguage == "" {
		defaultLanguage = "tr"
	}
	if m == nil {
		m = metrics.New()
	}

	return &Summary{
		store:           store,
		fetcher:         fetcher,
		summarizer:      summarizer,
		archive:         archive,
		metrics:         m,
		defaultLanguage: defaultLanguage,
		logger:          logger,
		now:             time.Now,
	}
}

// Create returns the summary of the video at params.URL, generating and
// storing it on first request. A summary that could not be stored is still
// returned, with a nil ID.
func (s *Summary) Create(ctx context.Context, params model.CreateSummaryParams) (model.VideoSummary, error) {
	s.metrics.SummaryRequests.Add(1)

	url := strings.TrimSpace(params.URL)
	if url == "" {
		return model.VideoSummary{}, apierror.NewErrValidation("video URL is required")
	}
	language, err := s.language(params.Language)
	if err != nil {
		return model.VideoSummary{}, err
	}
	if !youtube.IsValidURL(url) {
		return model.VideoSummary{}, apierror.NewErrInvalidURL()
	}
	videoID, ok := youtube.ExtractID(url)
	if !ok {
		return model.VideoSummary{}, apierror.NewErrVideoIDNotFound()
	}

	existing, err := s.store.GetByVideoID(ctx, videoID)
	if err == nil {
		s.metrics.SummaryCacheHits.Add(1)
		s.logger.DebugContext(ctx, "Summary service: returning stored summary",
			"video_id", videoID,
			"summary_id", existing.ID)
		return s.adopt(ctx, existing, params.Requester), nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		s.logger.ErrorContext(ctx, "Summary service: failed to look up summary",
			"video_id", videoID,
			"error", err.Error())
		return model.VideoSummary{}, fmt.Errorf("failed to get summary by video id: %w", err)
	}

	// The flight outlives a caller that goes away so other waiters still get a result.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.flights.Do(videoID, func() (any, error) {
		return s.generate(flightCtx, url, videoID, language, params.Requester)
	})
	if shared {
		s.metrics.DedupSharedResponses.Add(1)
	}
	if err != nil {
		return model.VideoSummary{}, err
	}

	return s.adopt(ctx, v.(model.VideoSummary), params.Requester), nil
}

func (s *Summary) generate(ctx context.Context, url, videoID, language string, requester model.Principal) (model.VideoSummary, error) {
	// A flight that started just after another finished finds the stored record.
	if existing, err := s.store.GetByVideoID(ctx, videoID); err == nil {
		s.metrics.SummaryCacheHits.Add(1)
		return existing, nil
	}

	meta, err := s.fetcher.Fetch(ctx, videoID)
	if err != nil {
		s.logger.WarnContext(ctx, "Summary service: failed to fetch metadata",
			"video_id", videoID,
			"error", err.Error())
		if errors.Is(err, model.ErrVideoNotFound) {
			return model.VideoSummary{}, apierror.NewErrVideoNotFound(videoID)
		}
		return model.VideoSummary{}, apierror.NewErrUpstream(err)
	}

	result, err := s.summarizer.Summarize(ctx, model.SummarizeRequest{
		URL:      url,
		VideoID:  videoID,
		Language: language,
		Title:    meta.Title,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Summary service: summarizer failed",
			"video_id", videoID,
			"error", err.Error())
		return model.VideoSummary{}, apierror.NewErrSummarizationFailed(err)
	}

	summary := s.newSummary(videoID, url, language, requester, result)
	summary.Duration = meta.Duration
	summary.PublishedAt = meta.PublishedAt
	if meta.Title != "" {
		summary.Title = meta.Title
	}
	if meta.ChannelTitle != "" {
		summary.ChannelTitle = meta.ChannelTitle
	}

	return s.persist(ctx, summary, result.Raw), nil
}

func (s *Summary) newSummary(videoID, url, language string, requester model.Principal, result model.SummarizeResult) model.VideoSummary {
	now := s.now().UTC().Truncate(time.Millisecond)

	ownerID, anonymous := requester.UserID, false
	if !requester.Authenticated() {
		ownerID, anonymous = uuid.New(), true
	}

	keyPoints := result.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	terms := result.ImportantTerms
	if terms == nil {
		terms = []model.Term{}
	}
	excerpt := result.TranscriptExcerpt
	if strings.TrimSpace(excerpt) == "" {
		excerpt = model.TranscriptPlaceholder
	}

	return model.VideoSummary{
		VideoID:           videoID,
		VideoURL:          url,
		OwnerID:           ownerID,
		OwnerAnonymous:    anonymous,
		Title:             result.Title,
		ChannelTitle:      result.ChannelTitle,
		Summary:           result.Summary,
		KeyPoints:         keyPoints,
		ImportantTerms:    terms,
		TranscriptExcerpt: excerpt,
		Language:          language,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// persist stores the summary and archives raw. Store failures are logged and
// the summary is returned without an ID.
func (s *Summary) persist(ctx context.Context, summary model.VideoSummary, raw []byte) model.VideoSummary {
	summary.ID = uuid.New()

	saved, err := s.store.Create(ctx, summary)
	if errors.Is(err, model.ErrConflict) {
		stored, getErr := s.store.GetByVideoID(ctx, summary.VideoID)
		if getErr == nil {
			s.logger.InfoContext(ctx, "Summary service: summary stored concurrently, using stored record",
				"video_id", summary.VideoID,
				"summary_id", stored.ID)
			return stored
		}
		err = getErr
	}
	if err != nil {
		s.metrics.SummaryPersistErrors.Add(1)
		s.logger.ErrorContext(ctx, "Summary service: failed to store summary",
			"video_id", summary.VideoID,
			"error", err.Error())
		summary.ID = uuid.Nil
		return summary
	}

	s.metrics.SummariesCreated.Add(1)
	s.logger.InfoContext(ctx, "Summary service: summary created",
		"video_id", saved.VideoID,
		"summary_id", saved.ID,
		"anonymous", saved.OwnerAnonymous)

	s.archiveOutput(ctx, saved.VideoID, raw)

	return saved
}

func (s *Summary) archiveOutput(ctx context.Context, videoID string, raw []byte) {
	if s.archive == nil || len(raw) == 0 {
		return
	}
	if err := s.archive.Upload(ctx, ArchiveKey(videoID), bytes.NewReader(raw)); err != nil {
		s.metrics.ArchiveErrors.Add(1)
		s.logger.WarnContext(ctx, "Summary service: failed to archive summarizer output",
			"video_id", videoID,
			"error", err.Error())
	}
}

// adopt transfers an anonymous-owned summary to an authenticated requester.
func (s *Summary) adopt(ctx context.Context, summary model.VideoSummary, requester model.Principal) model.VideoSummary {
	if !summary.Persisted() || !summary.OwnerAnonymous || !requester.Authenticated() {
		return summary
	}

	err := s.store.SetOwner(ctx, summary.ID, requester.UserID)
	if errors.Is(err, model.ErrConflict) {
		// Another requester adopted it first.
		current, getErr := s.store.GetByID(ctx, summary.ID)
		if getErr != nil {
			return summary
		}
		return current
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Summary service: failed to adopt anonymous summary",
			"summary_id", summary.ID,
			"user_id", requester.UserID,
			"error", err.Error())
		return summary
	}

	summary.OwnerID = requester.UserID
	summary.OwnerAnonymous = false
	return summary
}

func (s *Summary) List(ctx context.Context, requester model.Principal) ([]model.VideoSummary, error) {
	if !requester.Authenticated() {
		return nil, apierror.NewErrUnauthorized()
	}

	summaries, err := s.store.GetByOwnerID(ctx, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get summaries by owner: %w", err)
	}

	return summaries, nil
}

// Get returns a summary by ID. Anonymous requesters may read any summary;
// authenticated requesters only their own unless they are admins.
func (s *Summary) Get(ctx context.Context, requester model.Principal, id uuid.UUID) (model.VideoSummary, error) {
	summary, err := s.getByID(ctx, id)
	if err != nil {
		return model.VideoSummary{}, err
	}

	if requester.Authenticated() && !requester.IsAdmin() && !summary.OwnedBy(requester) {
		s.logger.InfoContext(ctx, "Summary service: access denied",
			"summary_id", id,
			"user_id", requester.UserID)
		return model.VideoSummary{}, apierror.NewErrForbidden()
	}

	return summary, nil
}

func (s *Summary) Delete(ctx context.Context, requester model.Principal, id uuid.UUID) error {
	if !requester.Authenticated() {
		return apierror.NewErrUnauthorized()
	}

	summary, err := s.getByID(ctx, id)
	if err != nil {
		return err
	}
	if !requester.IsAdmin() && !summary.OwnedBy(requester) {
		return apierror.NewErrForbidden()
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierror.NewErrSummaryNotFound()
		}
		return fmt.Errorf("failed to delete summary: %w", err)
	}

	if s.archive != nil {
		if err := s.archive.Delete(ctx, ArchiveKey(summary.VideoID)); err != nil {
			s.metrics.ArchiveErrors.Add(1)
			s.logger.WarnContext(ctx, "Summary service: failed to delete archived output",
				"video_id", summary.VideoID,
				"error", err.Error())
		}
	}

	s.logger.InfoContext(ctx, "Summary service: summary deleted",
		"summary_id", id,
		"user_id", requester.UserID)

	return nil
}

func (s *Summary) ToggleFavorite(ctx context.Context, requester model.Principal, id uuid.UUID) (bool, error) {
	if !requester.Authenticated() {
		return false, apierror.NewErrUnauthorized()
	}

	summary, err := s.getByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !summary.OwnedBy(requester) {
		return false, apierror.NewErrForbidden()
	}

	favorite, err := s.store.ToggleFavorite(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, apierror.NewErrSummaryNotFound()
		}
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return favorite, nil
}

// SummarizeChannel summarizes the latest videos of a channel and stores
// every video that is not stored yet under the requester.
func (s *Summary) SummarizeChannel(ctx context.Context, params model.ChannelParams) ([]model.VideoSummary, error) {
	if !params.Requester.Authenticated() {
		return nil, apierror.NewErrUnauthorized()
	}

	channelID := strings.TrimSpace(params.ChannelID)
	if channelID == "" {
		return nil, apierror.NewErrValidation("channel id is required")
	}
	maxVideos := params.MaxVideos
	if maxVideos == 0 {
		maxVideos = defaultChannelVideos
	}
	if maxVideos < 1 || maxVideos > maxChannelVideos {
		return nil, apierror.NewErrValidation(fmt.Sprintf("maxVideos must be between 1 and %d", maxChannelVideos))
	}
	language, err := s.language(params.Language)
	if err != nil {
		return nil, err
	}

	results, err := s.summarizer.SummarizeChannel(ctx, model.ChannelRequest{
		ChannelID: channelID,
		MaxVideos: maxVideos,
		Language:  language,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Summary service: channel summarizer failed",
			"channel_id", channelID,
			"error", err.Error())
		return nil, apierror.NewErrSummarizationFailed(err)
	}

	summaries := make([]model.VideoSummary, 0, len(results))
	for _, result := range results {
		if result.VideoID == "" {
			s.logger.WarnContext(ctx, "Summary service: channel result without video id",
				"channel_id", channelID)
			continue
		}

		existing, err := s.store.GetByVideoID(ctx, result.VideoID)
		if err == nil {
			s.metrics.SummaryCacheHits.Add(1)
			summaries = append(summaries, s.adopt(ctx, existing, params.Requester))
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("failed to get summary by video id: %w", err)
		}

		url := "https://www.youtube.com/watch?v=" + result.VideoID
		summary := s.newSummary(result.VideoID, url, language, params.Requester, result)
		summaries = append(summaries, s.persist(ctx, summary, result.Raw))
	}

	s.logger.InfoContext(ctx, "Summary service: channel summarized",
		"channel_id", channelID,
		"videos", len(summaries))

	return summaries, nil
}

// Archived opens the archived raw summarizer output of a video.
func (s *Summary) Archived(ctx context.Context, videoID string) (io.ReadCloser, error) {
	if s.archive == nil {
		return nil, apierror.NewErrArchiveNotFound(videoID)
	}

	rc, err := s.archive.Download(ctx, ArchiveKey(videoID))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, apierror.NewErrArchiveNotFound(videoID)
		}
		return nil, fmt.Errorf("failed to download archived output: %w", err)
	}

	return rc, nil
}

func (s *Summary) getByID(ctx context.Context, id uuid.UUID) (model.VideoSummary, error) {
	summary, err := s.store.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.VideoSummary{}, apierror.NewErrSummaryNotFound()
	}
	if err != nil {
		return model.VideoSummary{}, fmt.Errorf("failed to get summary by id: %w", err)
	}
	return summary, nil
}

func (s *Summary) language(language string) (string, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return s.defaultLanguage, nil
	}
	if len(language) < 2 || len(language) > 5 {
		return "", apierror.NewErrValidation("language must be between 2 and 5 characters")
	}
	return language, nil
}
