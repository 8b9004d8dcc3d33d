package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/dtroode/videobite-server/internal/logger"
	"github.com/dtroode/videobite-server/internal/metrics"
	"github.com/dtroode/videobite-server/internal/model"
)

// DefaultBaseURL is the YouTube Data API v3 endpoint.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

var _ model.MetadataFetcher = (*Client)(nil)

type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	Snippet struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		PublishedAt  string `json:"publishedAt"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

// Client fetches video metadata from the Data API. Calls are not retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewClient creates a metadata client. A non-positive rps disables throttling.
func NewClient(baseURL, apiKey string, rps float64, m *metrics.Metrics, logger *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(limit, 1),
		metrics:    m,
		logger:     logger,
	}
}

// Fetch returns metadata for videoID. It fails with model.ErrVideoNotFound when
// the API knows no such video and with model.ErrUpstreamUnavailable otherwise.
func (c *Client) Fetch(ctx context.Context, videoID string) (model.VideoMetadata, error) {
	c.metrics.MetadataRequests.Add(1)

	meta, err := c.fetch(ctx, videoID)
	if err != nil {
		c.metrics.MetadataErrors.Add(1)
		c.logger.Warn("YouTube client: metadata request failed",
			"video_id", videoID,
			"error", err.Error())
		return model.VideoMetadata{}, err
	}

	return meta, nil
}

func (c *Client) fetch(ctx context.Context, videoID string) (model.VideoMetadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.VideoMetadata{}, fmt.Errorf("%w: rate limiter: %w", model.ErrUpstreamUnavailable, err)
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("id", videoID)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+params.Encode(), nil)
	if err != nil {
		return model.VideoMetadata{}, fmt.Errorf("%w: %w", model.ErrUpstreamUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.VideoMetadata{}, fmt.Errorf("%w: %w", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.VideoMetadata{}, fmt.Errorf("%w: youtube data API %d: %s", model.ErrUpstreamUnavailable, resp.StatusCode, body)
	}

	var result videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return model.VideoMetadata{}, fmt.Errorf("%w: decode youtube data API: %w", model.ErrUpstreamUnavailable, err)
	}

	if len(result.Items) == 0 {
		return model.VideoMetadata{}, fmt.Errorf("%w: %s", model.ErrVideoNotFound, videoID)
	}

	item := result.Items[0]
	return model.VideoMetadata{
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		Duration:     item.ContentDetails.Duration,
		PublishedAt:  item.Snippet.PublishedAt,
		ChannelTitle: item.Snippet.ChannelTitle,
	}, nil
}
