package mocks

import (
	"github.com/stretchr/testify/mock"
)

type PasswordHasher struct {
	mock.Mock
}

func NewPasswordHasher(t testingT) *PasswordHasher {
	m := &PasswordHasher{}
	register(t, &m.Mock)
	return m
}

func (m *PasswordHasher) Hash(password string) ([]byte, error) {
	args := m.Called(password)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PasswordHasher) Compare(hash []byte, password string) error {
	args := m.Called(hash, password)
	return args.Error(0)
}
