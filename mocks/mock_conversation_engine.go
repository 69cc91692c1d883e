package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/service"
)

// MockConversationEngine is a mock implementation of service.ConversationEngine.
type MockConversationEngine struct {
	mock.Mock
}

func (m *MockConversationEngine) StartTurn(ctx context.Context, input service.TurnInput) *domain.EngineResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*domain.EngineResult)
}

func (m *MockConversationEngine) ContinueTurn(ctx context.Context, input service.TurnInput) *domain.EngineResult {
	args := m.Called(ctx, input)
	return args.Get(0).(*domain.EngineResult)
}
