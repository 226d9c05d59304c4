package store

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveTranscript(ctx context.Context, t Transcript) (Transcript, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(Transcript), args.Error(1)
}

func (m *MockStore) ListTranscripts(ctx context.Context, app string, limit int) ([]Transcript, error) {
	args := m.Called(ctx, app, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Transcript), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
