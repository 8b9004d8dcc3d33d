package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/videobite-server/internal/model"
)

type ContextManager struct {
	mock.Mock
}

func NewContextManager(t testingT) *ContextManager {
	m := &ContextManager{}
	register(t, &m.Mock)
	return m
}

func (m *ContextManager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	args := m.Called(ctx, principal)
	return args.Get(0).(context.Context)
}

func (m *ContextManager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	args := m.Called(ctx)
	return args.Get(0).(model.Principal), args.Bool(1)
}
