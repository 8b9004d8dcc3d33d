package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/videobite-server/internal/model"
)

var _ model.SummaryStore = (*SummaryRepository)(nil)

const summaryColumns = `id, video_id, video_url, owner_id, owner_anonymous, title, channel_title, duration,
	published_at, summary, key_points, important_terms, transcript_excerpt, language, is_favorite,
	created_at, updated_at`

type termRow struct {
	Term       string `json:"term"`
	Definition string `json:"definition,omitempty"`
}

type rowScanner interface {
	Scan(dest ...any) error
}

type SummaryRepository struct {
	db DBTX
}

func NewSummaryRepository(db DBTX) *SummaryRepository {
	return &SummaryRepository{
		db: db,
	}
}

func (r *SummaryRepository) Create(ctx context.Context, s model.VideoSummary) (model.VideoSummary, error) {
	keyPoints, terms, err := encodeLists(s)
	if err != nil {
		return model.VideoSummary{}, fmt.Errorf("failed to encode summary: %w", err)
	}

	query := `INSERT INTO video_summaries (id, video_id, video_url, owner_id, owner_anonymous, title,
			  channel_title, duration, published_at, summary, key_points, important_terms,
			  transcript_excerpt, language, is_favorite, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			  RETURNING ` + summaryColumns

	saved, err := scanSummary(r.db.QueryRowContext(ctx, query,
		s.ID, s.VideoID, s.VideoURL, s.OwnerID, s.OwnerAnonymous, s.Title,
		s.ChannelTitle, s.Duration, s.PublishedAt, s.Summary, keyPoints, terms,
		s.TranscriptExcerpt, s.Language, s.IsFavorite, s.CreatedAt, s.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.VideoSummary{}, fmt.Errorf("failed to create summary: %w", model.ErrConflict)
		}
		return model.VideoSummary{}, fmt.Errorf("failed to create summary: %w", err)
	}

	return saved, nil
}

func (r *SummaryRepository) GetByID(ctx context.Context, id uuid.UUID) (model.VideoSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM video_summaries WHERE id = $1`

	s, err := scanSummary(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.VideoSummary{}, model.ErrNotFound
		}
		return model.VideoSummary{}, fmt.Errorf("failed to get summary by id: %w", err)
	}

	return s, nil
}

func (r *SummaryRepository) GetByVideoID(ctx context.Context, videoID string) (model.VideoSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM video_summaries WHERE video_id = $1`

	s, err := scanSummary(r.db.QueryRowContext(ctx, query, videoID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.VideoSummary{}, model.ErrNotFound
		}
		return model.VideoSummary{}, fmt.Errorf("failed to get summary by video id: %w", err)
	}

	return s, nil
}

func (r *SummaryRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]model.VideoSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM video_summaries
			  WHERE owner_id = $1 AND owner_anonymous = FALSE
			  ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	summaries := []model.VideoSummary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summaries: %w", err)
	}

	return summaries, nil
}

func (r *SummaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM video_summaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}

	return expectAffected(res)
}

func (r *SummaryRepository) ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE video_summaries SET is_favorite = NOT is_favorite, updated_at = now()
			  WHERE id = $1 RETURNING is_favorite`

	var favorite bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&favorite); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, model.ErrNotFound
		}
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return favorite, nil
}

func (r *SummaryRepository) SetOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	query := `UPDATE video_summaries SET owner_id = $2, owner_anonymous = FALSE, updated_at = now()
			  WHERE id = $1 AND owner_anonymous`

	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to set summary owner: %w", err)
	}

	err = expectAffected(res)
	if !errors.Is(err, model.ErrNotFound) {
		return err
	}

	// Nothing matched: either the row is gone or someone adopted it first.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM video_summaries WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check summary existence: %w", err)
	}
	if exists {
		return model.ErrConflict
	}
	return model.ErrNotFound
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func encodeLists(s model.VideoSummary) ([]byte, []byte, error) {
	keyPoints := s.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	kp, err := json.Marshal(keyPoints)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]termRow, 0, len(s.ImportantTerms))
	for _, t := range s.ImportantTerms {
		rows = append(rows, termRow{Term: t.Term, Definition: t.Definition})
	}
	terms, err := json.Marshal(rows)
	if err != nil {
		return nil, nil, err
	}

	return kp, terms, nil
}

func scanSummary(row rowScanner) (model.VideoSummary, error) {
	var (
		s         model.VideoSummary
		keyPoints []byte
		terms     []byte
	)

	err := row.Scan(
		&s.ID, &s.VideoID, &s.VideoURL, &s.OwnerID, &s.OwnerAnonymous, &s.Title, &s.ChannelTitle, &s.Duration,
		&s.PublishedAt, &s.Summary, &keyPoints, &terms, &s.TranscriptExcerpt, &s.Language, &s.IsFavorite,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return model.VideoSummary{}, err
	}

	s.KeyPoints = []string{}
	if err := json.Unmarshal(keyPoints, &s.KeyPoints); err != nil {
		return model.VideoSummary{}, fmt.Errorf("failed to decode key points: %w", err)
	}

	var termRows []termRow
	if err := json.Unmarshal(terms, &termRows); err != nil {
		return model.VideoSummary{}, fmt.Errorf("failed to decode important terms: %w", err)
	}
	s.ImportantTerms = make([]model.Term, 0, len(termRows))
	for _, t := range termRows {
		s.ImportantTerms = append(s.ImportantTerms, model.Term{Term: t.Term, Definition: t.Definition})
	}

	return s, nil
}
