package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"budgetbuddy/internal/domain"
)

// MockExpenseRepo is a mock implementation of port.ExpenseRepository.
type MockExpenseRepo struct {
	mock.Mock
}

func (m *MockExpenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepo) GetByID(ctx context.Context, userID, expenseID uuid.UUID) (*domain.Expense, error) {
	args := m.Called(ctx, userID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepo) List(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter, offset, limit int) ([]domain.Expense, int, error) {
	args := m.Called(ctx, userID, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Expense), args.Int(1), args.Error(2)
}

func (m *MockExpenseRepo) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	args := m.Called(ctx, userID, expenseID)
	return args.Error(0)
}

func (m *MockExpenseRepo) SummarizeByCategory(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}
