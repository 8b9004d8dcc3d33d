package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/videobite-server/internal/model"
)

type TokenManager struct {
	mock.Mock
}

func NewTokenManager(t testingT) *TokenManager {
	m := &TokenManager{}
	register(t, &m.Mock)
	return m
}

func (m *TokenManager) GenerateToken(principal model.Principal) (string, error) {
	args := m.Called(principal)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) ParseToken(token string) (model.Principal, error) {
	args := m.Called(token)
	return args.Get(0).(model.Principal), args.Error(1)
}
