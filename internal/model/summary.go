package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TranscriptPlaceholder is stored when the summarizer returns no excerpt.
const TranscriptPlaceholder = "Transcript not available"

// SummaryStore defines persistence operations for video summaries.
type SummaryStore interface {
	Create(ctx context.Context, summary VideoSummary) (VideoSummary, error)
	GetByID(ctx context.Context, id uuid.UUID) (VideoSummary, error)
	GetByVideoID(ctx context.Context, videoID string) (VideoSummary, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]VideoSummary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error)
	SetOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

// VideoSummary is a generated summary of a single video.
// ID is uuid.Nil when the summary could not be persisted.
type VideoSummary struct {
	ID                uuid.UUID
	VideoID           string
	VideoURL          string
	OwnerID           uuid.UUID
	OwnerAnonymous    bool
	Title             string
	ChannelTitle      string
	Duration          string
	PublishedAt       string
	Summary           string
	KeyPoints         []string
	ImportantTerms    []Term
	TranscriptExcerpt string
	Language          string
	IsFavorite        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Persisted reports whether the summary has a store identity.
func (s VideoSummary) Persisted() bool {
	return s.ID != uuid.Nil
}

// OwnedBy reports whether the principal owns the summary.
func (s VideoSummary) OwnedBy(p Principal) bool {
	return p.Authenticated() && !s.OwnerAnonymous && s.OwnerID == p.UserID
}

// Term is an important term with an optional definition.
type Term struct {
	Term       string
	Definition string
}

// CreateSummaryParams contains parameters to create a summary.
type CreateSummaryParams struct {
	URL       string
	Language  string
	Requester Principal
}

// ChannelParams contains parameters to summarize recent channel videos.
type ChannelParams struct {
	ChannelID string
	MaxVideos int
	Language  string
	Requester Principal
}
