package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockPort struct {
	mock.Mock
}

func (m *MockPort) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockPort) Save(ctx context.Context, key string, snapshot []byte) error {
	args := m.Called(ctx, key, snapshot)
	return args.Error(0)
}
