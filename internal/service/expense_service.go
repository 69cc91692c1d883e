package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/port"
)

// CreateExpenseInput is the DTO for manually entered expenses.
type CreateExpenseInput struct {
	Amount      decimal.Decimal `json:"amount" swaggertype:"number"`
	Description string          `json:"description" binding:"required"`
	Category    domain.Category `json:"category" binding:"required"`
	Vendor      string          `json:"vendor"`
	// Date is YYYY-MM-DD; today is used when empty.
	Date string `json:"date"`
}

// ExpenseService manages persisted expenses.
type ExpenseService interface {
	// SaveDraft persists a complete draft produced by the conversation engine.
	SaveDraft(ctx context.Context, userID uuid.UUID, draft *domain.DraftExpense, currentDate time.Time) (*domain.Expense, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateExpenseInput) (*domain.Expense, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter, offset, limit int) ([]domain.Expense, int, error)
	GetByID(ctx context.Context, userID, expenseID uuid.UUID) (*domain.Expense, error)
	Delete(ctx context.Context, userID, expenseID uuid.UUID) error
	Summary(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) (*domain.ExpenseSummary, error)
}

type expenseService struct {
	repo port.ExpenseRepository
	now  func() time.Time
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(repo port.ExpenseRepository) ExpenseService {
	return &expenseService{repo: repo, now: time.Now}
}

func (s *expenseService) SaveDraft(ctx context.Context, userID uuid.UUID, draft *domain.DraftExpense, currentDate time.Time) (*domain.Expense, error) {
	if draft == nil || !draft.IsComplete() {
		return nil, domain.ErrExpenseIncomplete
	}
	if !domain.ValidAmount(*draft.Amount) {
		return nil, domain.ErrInvalidAmount
	}
	amount, err := checkAmount(decimal.NewFromFloat(*draft.Amount))
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(draft.Description)
	vendor := strings.TrimSpace(draft.Vendor)
	if err := checkText(description, vendor); err != nil {
		return nil, err
	}
	if currentDate.IsZero() {
		currentDate = s.now()
	}

	spentOn, err := parseSpentOn(draft.Date, currentDate)
	if err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Category:    domain.NormalizeCategory(string(draft.Category)),
		Vendor:      vendor,
		SpentOn:     spentOn,
		Source:      domain.ExpenseSourceChat,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("saving chat expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) Create(ctx context.Context, userID uuid.UUID, input CreateExpenseInput) (*domain.Expense, error) {
	amount, err := checkAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domain.ErrExpenseIncomplete
	}
	vendor := strings.TrimSpace(input.Vendor)
	if err := checkText(description, vendor); err != nil {
		return nil, err
	}
	if !domain.ValidCategories[input.Category] {
		return nil, domain.ErrInvalidCategory
	}

	spentOn, err := parseSpentOn(input.Date, s.now())
	if err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Category:    input.Category,
		Vendor:      vendor,
		SpentOn:     spentOn,
		Source:      domain.ExpenseSourceManual,
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("creating expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) List(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter, offset, limit int) ([]domain.Expense, int, error) {
	return s.repo.List(ctx, userID, filter, offset, limit)
}

func (s *expenseService) GetByID(ctx context.Context, userID, expenseID uuid.UUID) (*domain.Expense, error) {
	expense, err := s.repo.GetByID(ctx, userID, expenseID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) Delete(ctx context.Context, userID, expenseID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, expenseID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrExpenseNotFound
		}
		return err
	}
	return nil
}

func (s *expenseService) Summary(ctx context.Context, userID uuid.UUID, filter domain.ExpenseFilter) (*domain.ExpenseSummary, error) {
	totals, err := s.repo.SummarizeByCategory(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("summarizing expenses: %w", err)
	}

	summary := &domain.ExpenseSummary{
		Total:      decimal.Zero,
		ByCategory: make([]domain.CategoryTotal, 0, len(totals)),
	}
	if filter.From != nil {
		summary.From = filter.From.Format(domain.DateLayout)
	}
	if filter.To != nil {
		summary.To = filter.To.Format(domain.DateLayout)
	}
	for _, t := range totals {
		summary.Total = summary.Total.Add(t.Total)
		summary.Count += t.Count
		summary.ByCategory = append(summary.ByCategory, t)
	}
	return summary, nil
}

// checkAmount rounds to cents and then enforces the column bounds, so an
// amount that rounds to zero is rejected.
func checkAmount(v decimal.Decimal) (decimal.Decimal, error) {
	rounded := v.Round(2)
	if !rounded.IsPositive() {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	if rounded.GreaterThan(domain.MaxExpenseAmount) {
		return decimal.Zero, domain.ErrAmountTooLarge
	}
	return rounded, nil
}

func checkText(fields ...string) error {
	for _, f := range fields {
		if utf8.RuneCountInString(f) > domain.MaxExpenseTextLen {
			return domain.ErrTextTooLong
		}
	}
	return nil
}

// parseSpentOn parses a YYYY-MM-DD date, falling back to the calendar day of now.
func parseSpentOn(date string, now time.Time) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return t, nil
}
