package port

import (
	"context"

	"github.com/google/uuid"

	"budgetbuddy/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ExpenseRepository defines the contract for expense persistence.
// All query methods include userID so one account never sees another's records.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, userID, expenseID uuid.UUID) (*domain.Expense, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter, offset, limit int) ([]domain.Expense, int, error)
	Delete(ctx context.Context, userID, expenseID uuid.UUID) error
	SummarizeByCategory(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) ([]domain.CategoryTotal, error)
}
