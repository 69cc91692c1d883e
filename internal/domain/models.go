package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a registered student account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Column limits of the expenses table.
var MaxExpenseAmount = decimal.RequireFromString("9999999999.99")

const MaxExpenseTextLen = 255

// Expense is a persisted, complete expense record.
type Expense struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	Category    Category        `db:"category" json:"category"`
	Vendor      string          `db:"vendor" json:"vendor"`
	SpentOn     time.Time       `db:"spent_on" json:"spent_on"`
	Source      ExpenseSource   `db:"source" json:"source"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// ExpenseFilter narrows an expense listing. Zero values mean "no bound".
type ExpenseFilter struct {
	From     *time.Time
	To       *time.Time
	Category Category
}

// ParseExpenseFilter builds a filter from optional YYYY-MM-DD bounds and an
// optional category name.
func ParseExpenseFilter(from, to, category string) (ExpenseFilter, error) {
	var f ExpenseFilter
	if from = strings.TrimSpace(from); from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return f, ErrInvalidDate
		}
		f.From = &t
	}
	if to = strings.TrimSpace(to); to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return f, ErrInvalidDate
		}
		f.To = &t
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, ErrInvalidDateRange
	}
	if category = strings.TrimSpace(category); category != "" {
		c := Category(category)
		if !ValidCategories[c] {
			return f, ErrInvalidCategory
		}
		f.Category = c
	}
	return f, nil
}

// CategoryTotal is the aggregate spend for one category.
type CategoryTotal struct {
	Category Category        `db:"category" json:"category"`
	Total    decimal.Decimal `db:"total" json:"total"`
	Count    int             `db:"count" json:"count"`
}

// ExpenseSummary aggregates a user's spending over a date range.
type ExpenseSummary struct {
	From       string          `json:"from,omitempty"`
	To         string          `json:"to,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	ByCategory []CategoryTotal `json:"by_category"`
}
