package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/videobite-server/internal/model"
)

type MetadataFetcher struct {
	mock.Mock
}

func NewMetadataFetcher(t testingT) *MetadataFetcher {
	m := &MetadataFetcher{}
	register(t, &m.Mock)
	return m
}

func (m *MetadataFetcher) Fetch(ctx context.Context, videoID string) (model.VideoMetadata, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).(model.VideoMetadata), args.Error(1)
}
