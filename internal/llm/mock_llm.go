package llm

import (
	"context"

	"github.com/stretchr/testify/mock"

	"local-assistants/internal/prompt"
)

// MockClient is a mock implementation of Client using testify/mock.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Stream(ctx context.Context, pair prompt.Pair) (Stream, error) {
	args := m.Called(ctx, pair)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Stream), args.Error(1)
}

func (m *MockClient) Model() string {
	args := m.Called()
	return args.String(0)
}
