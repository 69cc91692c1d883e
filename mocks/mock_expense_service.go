package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/service"
)

// MockExpenseService is a mock implementation of service.ExpenseService.
type MockExpenseService struct {
	mock.Mock
}

func (m *MockExpenseService) SaveDraft(ctx context.Context, userID uuid.UUID, draft *domain.DraftExpense, currentDate time.Time) (*domain.Expense, error) {
	args := m.Called(ctx, userID, draft, currentDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) Create(ctx context.Context, userID uuid.UUID, input service.CreateExpenseInput) (*domain.Expense, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) List(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter, offset, limit int) ([]domain.Expense, int, error) {
	args := m.Called(ctx, userID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Expense), args.Int(1), args.Error(2)
}

func (m *MockExpenseService) GetByID(ctx context.Context, userID, expenseID uuid.UUID) (*domain.Expense, error) {
	args := m.Called(ctx, userID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseService) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	args := m.Called(ctx, userID, expenseID)
	return args.Error(0)
}

func (m *MockExpenseService) Summary(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) (*domain.ExpenseSummary, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExpenseSummary), args.Error(1)
}
