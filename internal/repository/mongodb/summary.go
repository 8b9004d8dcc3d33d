package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dtroode/videobite-server/internal/model"
)

var _ model.SummaryStore = (*SummaryRepository)(nil)

type termDocument struct {
	Term       string `bson:"term"`
	Definition string `bson:"definition,omitempty"`
}

type summaryDocument struct {
	ID                string         `bson:"_id"`
	VideoID           string         `bson:"video_id"`
	VideoURL          string         `bson:"video_url"`
	OwnerID           string         `bson:"owner_id"`
	OwnerAnonymous    bool           `bson:"owner_anonymous"`
	Title             string         `bson:"title"`
	ChannelTitle      string         `bson:"channel_title"`
	Duration          string         `bson:"duration"`
	PublishedAt       string         `bson:"published_at"`
	Summary           string         `bson:"summary"`
	KeyPoints         []string       `bson:"key_points"`
	ImportantTerms    []termDocument `bson:"important_terms"`
	TranscriptExcerpt string         `bson:"transcript_excerpt"`
	Language          string         `bson:"language"`
	IsFavorite        bool           `bson:"is_favorite"`
	CreatedAt         time.Time      `bson:"created_at"`
	UpdatedAt         time.Time      `bson:"updated_at"`
}

type SummaryRepository struct {
	coll *mongo.Collection
}

func NewSummaryRepository(db *mongo.Database) *SummaryRepository {
	return &SummaryRepository{coll: db.Collection(summariesCollection)}
}

func (r *SummaryRepository) Create(ctx context.Context, s model.VideoSummary) (model.VideoSummary, error) {
	if _, err := r.coll.InsertOne(ctx, newSummaryDocument(s)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.VideoSummary{}, fmt.Errorf("failed to create summary: %w", model.ErrConflict)
		}
		return model.VideoSummary{}, fmt.Errorf("failed to create summary: %w", err)
	}

	return s, nil
}

func (r *SummaryRepository) GetByID(ctx context.Context, id uuid.UUID) (model.VideoSummary, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, "id")
}

func (r *SummaryRepository) GetByVideoID(ctx context.Context, videoID string) (model.VideoSummary, error) {
	return r.findOne(ctx, bson.D{{Key: "video_id", Value: videoID}}, "video id")
}

func (r *SummaryRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]model.VideoSummary, error) {
	filter := bson.D{
		{Key: "owner_id", Value: ownerID.String()},
		{Key: "owner_anonymous", Value: false},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []summaryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode summaries: %w", err)
	}

	summaries := make([]model.VideoSummary, 0, len(docs))
	for _, d := range docs {
		s, err := d.toModel()
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}

func (r *SummaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SummaryRepository) ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	// Pipeline update so the flip happens atomically on the server.
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_favorite", Value: bson.D{{Key: "$not", Value: "$is_favorite"}}},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "is_favorite", Value: 1}})

	var doc struct {
		IsFavorite bool `bson:"is_favorite"`
	}
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: id.String()}}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, model.ErrNotFound
		}
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	return doc.IsFavorite, nil
}

func (r *SummaryRepository) SetOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "owner_id", Value: ownerID.String()},
		{Key: "owner_anonymous", Value: false},
		{Key: "updated_at", Value: time.Now().UTC()},
	}}}

	filter := bson.D{{Key: "_id", Value: id.String()}, {Key: "owner_anonymous", Value: true}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set summary owner: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return fmt.Errorf("failed to check summary existence: %w", err)
	}
	if n > 0 {
		return model.ErrConflict
	}
	return model.ErrNotFound
}

func (r *SummaryRepository) findOne(ctx context.Context, filter bson.D, by string) (model.VideoSummary, error) {
	var doc summaryDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.VideoSummary{}, model.ErrNotFound
		}
		return model.VideoSummary{}, fmt.Errorf("failed to get summary by %s: %w", by, err)
	}

	return doc.toModel()
}

func newSummaryDocument(s model.VideoSummary) summaryDocument {
	keyPoints := s.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	terms := make([]termDocument, 0, len(s.ImportantTerms))
	for _, t := range s.ImportantTerms {
		terms = append(terms, termDocument{Term: t.Term, Definition: t.Definition})
	}

	return summaryDocument{
		ID:                s.ID.String(),
		VideoID:           s.VideoID,
		VideoURL:          s.VideoURL,
		OwnerID:           s.OwnerID.String(),
		OwnerAnonymous:    s.OwnerAnonymous,
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
		UpdatedAt:         s.UpdatedAt,
	}
}

func (d summaryDocument) toModel() (model.VideoSummary, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.VideoSummary{}, fmt.Errorf("invalid summary id %q: %w", d.ID, err)
	}
	ownerID, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return model.VideoSummary{}, fmt.Errorf("invalid owner id %q: %w", d.OwnerID, err)
	}

	keyPoints := d.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	terms := make([]model.Term, 0, len(d.ImportantTerms))
	for _, t := range d.ImportantTerms {
		terms = append(terms, model.Term{Term: t.Term, Definition: t.Definition})
	}

	return model.VideoSummary{
		ID:                id,
		VideoID:           d.VideoID,
		VideoURL:          d.VideoURL,
		OwnerID:           ownerID,
		OwnerAnonymous:    d.OwnerAnonymous,
		Title:             d.Title,
		ChannelTitle:      d.ChannelTitle,
		Duration:          d.Duration,
		PublishedAt:       d.PublishedAt,
		Summary:           d.Summary,
		KeyPoints:         keyPoints,
		ImportantTerms:    terms,
		TranscriptExcerpt: d.TranscriptExcerpt,
		Language:          d.Language,
		IsFavorite:        d.IsFavorite,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}, nil
}
