package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/videobite-server/internal/model"
)

type SummaryService struct {
	mock.Mock
}

func NewSummaryService(t testingT) *SummaryService {
	m := &SummaryService{}
	register(t, &m.Mock)
	return m
}

func (m *SummaryService) Create(ctx context.Context, params model.CreateSummaryParams) (model.VideoSummary, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.VideoSummary), args.Error(1)
}

func (m *SummaryService) List(ctx context.Context, requester model.Principal) ([]model.VideoSummary, error) {
	args := m.Called(ctx, requester)
	if v := args.Get(0); v != nil {
		return v.([]model.VideoSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SummaryService) Get(ctx context.Context, requester model.Principal, id uuid.UUID) (model.VideoSummary, error) {
	args := m.Called(ctx, requester, id)
	return args.Get(0).(model.VideoSummary), args.Error(1)
}

func (m *SummaryService) Delete(ctx context.Context, requester model.Principal, id uuid.UUID) error {
	args := m.Called(ctx, requester, id)
	return args.Error(0)
}

func (m *SummaryService) ToggleFavorite(ctx context.Context, requester model.Principal, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, requester, id)
	return args.Bool(0), args.Error(1)
}

func (m *SummaryService) SummarizeChannel(ctx context.Context, params model.ChannelParams) ([]model.VideoSummary, error) {
	args := m.Called(ctx, params)
	if v := args.Get(0); v != nil {
		return v.([]model.VideoSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SummaryService) Archived(ctx context.Context, videoID string) (io.ReadCloser, error) {
	args := m.Called(ctx, videoID)
	if v := args.Get(0); v != nil {
		return v.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}
