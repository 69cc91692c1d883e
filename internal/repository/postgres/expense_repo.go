package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/port"
)

type expenseRepo struct {
	db *sqlx.DB
}

// NewExpenseRepo creates a new PostgreSQL-backed ExpenseRepository.
func NewExpenseRepo(db *sqlx.DB) port.ExpenseRepository {
	return &expenseRepo{db: db}
}

// buildExpenseWhere constructs the WHERE clause for a user's expenses.
// It returns the clause string (starting with "WHERE") and the positional arguments.
func buildExpenseWhere(userID uuid.UUID, filter domain.ExpenseFilter) (clause string, args []interface{}) {
	args = []interface{}{userID}
	clause = "WHERE user_id = $1"
	argN := 2

	if filter.From != nil {
		clause += fmt.Sprintf(" AND spent_on >= $%d", argN)
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		clause += fmt.Sprintf(" AND spent_on <= $%d", argN)
		args = append(args, *filter.To)
		argN++
	}
	if filter.Category != "" {
		clause += fmt.Sprintf(" AND category = $%d", argN)
		args = append(args, filter.Category)
		argN++ //nolint:ineffassign // argN kept incremented for consistency
	}
	return clause, args
}

func (r *expenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	now := time.Now().UTC()
	expense.CreatedAt = now
	expense.UpdatedAt = now

	query := `INSERT INTO expenses (id, user_id, amount, description, category, vendor,
		spent_on, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		expense.ID, expense.UserID, expense.Amount, expense.Description, expense.Category,
		expense.Vendor, expense.SpentOn, expense.Source, expense.CreatedAt, expense.UpdatedAt)
	if err != nil {
		return fmt.Errorf("expenseRepo.Create: %w", err)
	}
	return nil
}

func (r *expenseRepo) GetByID(ctx context.Context, userID, expenseID uuid.UUID) (*domain.Expense, error) {
	var expense domain.Expense
	err := r.db.GetContext(ctx, &expense,
		"SELECT * FROM expenses WHERE id = $1 AND user_id = $2", expenseID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("expenseRepo.GetByID: %w", err)
	}
	return &expense, nil
}

func (r *expenseRepo) List(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter, offset, limit int) ([]domain.Expense, int, error) {
	where, args := buildExpenseWhere(userID, filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM expenses "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("expenseRepo.List count: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf("SELECT * FROM expenses %s ORDER BY spent_on DESC, created_at DESC LIMIT $%d OFFSET $%d",
		where, n+1, n+2)
	expenses := []domain.Expense{}
	if err := r.db.SelectContext(ctx, &expenses, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("expenseRepo.List: %w", err)
	}
	return expenses, total, nil
}

func (r *expenseRepo) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = $1 AND user_id = $2", expenseID, userID)
	if err != nil {
		return fmt.Errorf("expenseRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *expenseRepo) SummarizeByCategory(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) ([]domain.CategoryTotal, error) {
	where, args := buildExpenseWhere(userID, filter)
	query := `SELECT category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count
		FROM expenses ` + where + `
		GROUP BY category
		ORDER BY total DESC`

	totals := []domain.CategoryTotal{}
	if err := r.db.SelectContext(ctx, &totals, query, args...); err != nil {
		return nil, fmt.Errorf("expenseRepo.SummarizeByCategory: %w", err)
	}
	return totals, nil
}
