package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/videobite-server/internal/model"
)

type TokenService struct {
	mock.Mock
}

func NewTokenService(t testingT) *TokenService {
	m := &TokenService{}
	register(t, &m.Mock)
	return m
}

func (m *TokenService) Principal(ctx context.Context, token string) (model.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Principal), args.Error(1)
}
