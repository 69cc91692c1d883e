package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/domain"
)

func amount(v float64) *float64 { return &v }

func TestDraftExpense_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.DraftExpense
		want  []string
	}{
		{"empty", domain.DraftExpense{}, []string{"amount", "description", "category"}},
		{"blank description", domain.DraftExpense{Amount: amount(3), Description: "  ", Category: domain.CategoryOther}, []string{"description"}},
		{"vendor and date are optional", domain.DraftExpense{Amount: amount(3), Description: "Tea", Category: domain.CategoryOther}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.draft.MissingFields())
			assert.Equal(t, len(tt.want) == 0, tt.draft.IsComplete())
		})
	}
}

func TestDraftExpense_Clone(t *testing.T) {
	orig := &domain.DraftExpense{Amount: amount(4.5), Description: "Coffee"}
	clone := orig.Clone()

	*clone.Amount = 9
	clone.Description = "Tea"

	assert.Equal(t, 4.5, *orig.Amount)
	assert.Equal(t, "Coffee", orig.Description)
	assert.Nil(t, (*domain.DraftExpense)(nil).Clone())
}

func TestDraftExpense_FillMissing(t *testing.T) {
	prev := &domain.DraftExpense{
		Amount:      amount(4.5),
		Description: "Coffee",
		Category:    domain.CategoryFoodDining,
		Vendor:      "Starbucks",
		Date:        "2024-03-14",
	}
	d := &domain.DraftExpense{Description: "Latte", Date: "2024-03-15"}

	d.FillMissing(prev)

	assert.Equal(t, 4.5, *d.Amount)
	assert.Equal(t, "Latte", d.Description)
	assert.Equal(t, domain.CategoryFoodDining, d.Category)
	assert.Equal(t, "Starbucks", d.Vendor)
	assert.Equal(t, "2024-03-15", d.Date)

	*d.Amount = 1
	assert.Equal(t, 4.5, *prev.Amount)

	d.FillMissing(nil)
	assert.Equal(t, "Latte", d.Description)
}

func TestValidAmount(t *testing.T) {
	assert.True(t, domain.ValidAmount(0.01))
	assert.False(t, domain.ValidAmount(0))
	assert.False(t, domain.ValidAmount(-2))
	assert.False(t, domain.ValidAmount(math.NaN()))
	assert.False(t, domain.ValidAmount(math.Inf(1)))
}

func TestEngineResult_NextContext(t *testing.T) {
	prev := &domain.ConversationContext{LastQuestion: "How much?"}

	failed := &domain.EngineResult{Success: false, Error: "boom"}
	assert.Same(t, prev, failed.NextContext(prev))

	complete := &domain.EngineResult{Success: true, Complete: true, Expense: &domain.DraftExpense{}}
	assert.Nil(t, complete.NextContext(prev))

	pending := &domain.EngineResult{
		Success:          true,
		NeedsMoreInfo:    true,
		FollowUpQuestion: "Where was this?",
		Expense:          &domain.DraftExpense{Amount: amount(20)},
	}
	next := pending.NextContext(prev)
	require.NotNil(t, next)
	assert.Equal(t, "Where was this?", next.LastQuestion)
	assert.Equal(t, 20.0, *next.PendingExpense.Amount)
	assert.NotSame(t, pending.Expense, next.PendingExpense)
}

func TestConversationContext_JSONShape(t *testing.T) {
	ctx := domain.ConversationContext{
		PendingExpense: &domain.DraftExpense{Description: "Coffee", Category: domain.CategoryFoodDining},
		LastQuestion:   "How much did you spend on coffee?",
	}

	data, err := json.Marshal(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pendingExpense":{"description":"Coffee","category":"Food & Dining"},"lastQuestion":"How much did you spend on coffee?"}`, string(data))
}

func TestNormalizeCategory(t *testing.T) {
	for _, c := range domain.Categories {
		assert.Equal(t, c, domain.NormalizeCategory(string(c)))
	}
	assert.Equal(t, domain.CategoryBillsUtilities, domain.NormalizeCategory(" Bills & Utilities "))
	assert.Equal(t, domain.CategoryOther, domain.NormalizeCategory("Groceries"))
	assert.Equal(t, domain.CategoryOther, domain.NormalizeCategory("food & dining"))
	assert.Equal(t, domain.CategoryOther, domain.NormalizeCategory(""))
}
