package handler

import (
	"time"

	"github.com/dtroode/videobite-server/internal/model"
)

type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserView(u model.User) userView {
	return userView{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type termView struct {
	Term       string `json:"term"`
	Definition string `json:"definition,omitempty"`
}

type summaryView struct {
	SummaryID         *string    `json:"summaryId"`
	VideoID           string     `json:"videoId"`
	VideoURL          string     `json:"videoUrl"`
	Title             string     `json:"title"`
	ChannelTitle      string     `json:"channelTitle"`
	Duration          string     `json:"duration,omitempty"`
	PublishedAt       string     `json:"publishedAt,omitempty"`
	Summary           string     `json:"summary"`
	KeyPoints         []string   `json:"keyPoints"`
	ImportantTerms    []termView `json:"importantTerms"`
	TranscriptExcerpt string     `json:"transcriptExcerpt"`
	Language          string     `json:"language"`
	IsFavorite        bool       `json:"isFavorite"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func newSummaryView(s model.VideoSummary) summaryView {
	var id *string
	if s.Persisted() {
		v := s.ID.String()
		id = &v
	}

	keyPoints := s.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	terms := make([]termView, 0, len(s.ImportantTerms))
	for _, t := range s.ImportantTerms {
		terms = append(terms, termView{Term: t.Term, Definition: t.Definition})
	}

	return summaryView{
		SummaryID:         id,
		VideoID:           s.VideoID,
		VideoURL:          s.VideoURL,
		Title:             s.Title,
		ChannelTitle:      s.ChannelTitle,
		Duration:          s.Duration,
		PublishedAt:       s.PublishedAt,
		Summary:           s.Summary,
		KeyPoints:         keyPoints,
		ImportantTerms:    terms,
		TranscriptExcerpt: s.TranscriptExcerpt,
		Language:          s.Language,
		IsFavorite:        s.IsFavorite,
		CreatedAt:         s.CreatedAt,
	}
}

func newSummaryViews(summaries []model.VideoSummary) []summaryView {
	views := make([]summaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, newSummaryView(s))
	}
	return views
}
