package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/dtroode/videobite-server/internal/model"
)

const summariesNS = "videobite.video_summaries"

func summaryFixture() (model.VideoSummary, bson.D) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	s := model.VideoSummary{
		ID:                uuid.New(),
		VideoID:           "dQw4w9WgXcQ",
		VideoURL:          "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		OwnerID:           uuid.New(),
		Title:             "Never Gonna Give You Up",
		ChannelTitle:      "Rick Astley",
		Duration:          "PT3M33S",
		PublishedAt:       "2009-10-25T06:57:33Z",
		Summary:           "A song about commitment.",
		KeyPoints:         []string{"commitment", "honesty"},
		ImportantTerms:    []model.Term{{Term: "rickroll", Definition: "a bait-and-switch prank"}, {Term: "pop"}},
		TranscriptExcerpt: "We're no strangers to love",
		Language:          "en",
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	doc := bson.D{
		{Key: "_id", Value: s.ID.String()},
		{Key: "video_id", Value: s.VideoID},
		{Key: "video_url", Value: s.VideoURL},
		{Key: "owner_id", Value: s.OwnerID.String()},
		{Key: "owner_anonymous", Value: false},
		{Key: "title", Value: s.Title},
		{Key: "channel_title", Value: s.ChannelTitle},
		{Key: "duration", Value: s.Duration},
		{Key: "published_at", Value: s.PublishedAt},
		{Key: "summary", Value: s.Summary},
		{Key: "key_points", Value: bson.A{"commitment", "honesty"}},
		{Key: "important_terms", Value: bson.A{
			bson.D{{Key: "term", Value: "rickroll"}, {Key: "definition", Value: "a bait-and-switch prank"}},
			bson.D{{Key: "term", Value: "pop"}},
		}},
		{Key: "transcript_excerpt", Value: s.TranscriptExcerpt},
		{Key: "language", Value: s.Language},
		{Key: "is_favorite", Value: false},
		{Key: "created_at", Value: now},
		{Key: "updated_at", Value: now},
	}

	return s, doc
}

func TestSummaryRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	s, _ := summaryFixture()

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		got, err := NewSummaryRepository(mt.DB).Create(context.Background(), s)
		require.NoError(mt, err)
		assert.Equal(mt, s, got)
	})

	mt.Run("duplicate video", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: videobite.video_summaries index: video_id_1",
		}))

		_, err := NewSummaryRepository(mt.DB).Create(context.Background(), s)
		require.ErrorIs(mt, err, model.ErrConflict)
	})
}

func TestSummaryRepository_Get(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	want, doc := summaryFixture()

	mt.Run("by id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, summariesNS, mtest.FirstBatch, doc))

		got, err := NewSummaryRepository(mt.DB).GetByID(context.Background(), want.ID)
		require.NoError(mt, err)
		assert.Equal(mt, want, got)
	})

	mt.Run("by video id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, summariesNS, mtest.FirstBatch, doc))

		got, err := NewSummaryRepository(mt.DB).GetByVideoID(context.Background(), want.VideoID)
		require.NoError(mt, err)
		assert.Equal(mt, want, got)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, summariesNS, mtest.FirstBatch))

		_, err := NewSummaryRepository(mt.DB).GetByID(context.Background(), uuid.New())
		require.ErrorIs(mt, err, model.ErrNotFound)
	})
}

func TestSummaryRepository_GetByOwnerID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	want, doc := summaryFixture()

	mt.Run("returns owner summaries", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, summariesNS, mtest.FirstBatch, doc))

		got, err := NewSummaryRepository(mt.DB).GetByOwnerID(context.Background(), want.OwnerID)
		require.NoError(mt, err)
		require.Len(mt, got, 1)
		assert.Equal(mt, want, got[0])
	})

	mt.Run("empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, summariesNS, mtest.FirstBatch))

		got, err := NewSummaryRepository(mt.DB).GetByOwnerID(context.Background(), uuid.New())
		require.NoError(mt, err)
		assert.Empty(mt, got)
		assert.NotNil(mt, got)
	})
}

func TestSummaryRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		err := NewSummaryRepository(mt.DB).Delete(context.Background(), uuid.New())
		require.NoError(mt, err)
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := NewSummaryRepository(mt.DB).Delete(context.Background(), uuid.New())
		require.ErrorIs(mt, err, model.ErrNotFound)
	})
}

func TestSummaryRepository_ToggleFavorite(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("flipped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: bson.D{{Key: "is_favorite", Value: true}}},
		))

		fav, err := NewSummaryRepository(mt.DB).ToggleFavorite(context.Background(), uuid.New())
		require.NoError(mt, err)
		assert.True(mt, fav)
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := NewSummaryRepository(mt.DB).ToggleFavorite(context.Background(), uuid.New())
		require.ErrorIs(mt, err, model.ErrNotFound)
	})
}

func TestSummaryRepository_SetOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("adopted", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := NewSummaryRepository(mt.DB).SetOwner(context.Background(), uuid.New(), uuid.New())
		require.NoError(mt, err)
	})

	mt.Run("already owned", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 0},
				bson.E{Key: "nModified", Value: 0},
			),
			mtest.CreateCursorResponse(0, "videobite.video_summaries", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		err := NewSummaryRepository(mt.DB).SetOwner(context.Background(), uuid.New(), uuid.New())
		require.ErrorIs(mt, err, model.ErrConflict)
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 0},
				bson.E{Key: "nModified", Value: 0},
			),
			mtest.CreateCursorResponse(0, "videobite.video_summaries", mtest.FirstBatch),
		)

		err := NewSummaryRepository(mt.DB).SetOwner(context.Background(), uuid.New(), uuid.New())
		require.ErrorIs(mt, err, model.ErrNotFound)
	})
}
