package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/videobite-server/internal/model"
)

type SummaryStore struct {
	mock.Mock
}

func NewSummaryStore(t testingT) *SummaryStore {
	m := &SummaryStore{}
	register(t, &m.Mock)
	return m
}

func (m *SummaryStore) Create(ctx context.Context, summary model.VideoSummary) (model.VideoSummary, error) {
	args := m.Called(ctx, summary)
	return args.Get(0).(model.VideoSummary), args.Error(1)
}

func (m *SummaryStore) GetByID(ctx context.Context, id uuid.UUID) (model.VideoSummary, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.VideoSummary), args.Error(1)
}

func (m *SummaryStore) GetByVideoID(ctx context.Context, videoID string) (model.VideoSummary, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).(model.VideoSummary), args.Error(1)
}

func (m *SummaryStore) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]model.VideoSummary, error) {
	args := m.Called(ctx, ownerID)
	if v := args.Get(0); v != nil {
		return v.([]model.VideoSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SummaryStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SummaryStore) ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *SummaryStore) SetOwner(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}
