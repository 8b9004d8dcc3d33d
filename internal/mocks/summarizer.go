package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/videobite-server/internal/model"
)

type Summarizer struct {
	mock.Mock
}

func NewSummarizer(t testingT) *Summarizer {
	m := &Summarizer{}
	register(t, &m.Mock)
	return m
}

func (m *Summarizer) Summarize(ctx context.Context, req model.SummarizeRequest) (model.SummarizeResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.SummarizeResult), args.Error(1)
}

func (m *Summarizer) SummarizeChannel(ctx context.Context, req model.ChannelRequest) ([]model.SummarizeResult, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.([]model.SummarizeResult), args.Error(1)
	}
	return nil, args.Error(1)
}
