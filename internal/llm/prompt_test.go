package llm_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"budgetbuddy/internal/domain"
	"budgetbuddy/internal/llm"
)

func TestBuildExpensePrompt_EmbedsDateAndVocabulary(t *testing.T) {
	prompt := llm.BuildExpensePrompt(llm.PromptInput{
		CurrentDate: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		UserText:    "I spent $10.88 on a sandwich at Subway today",
	})

	assert.Contains(t, prompt, "Friday, 2024-03-15")
	for _, c := range domain.Categories {
		assert.Contains(t, prompt, "- "+string(c)+"\n")
	}
	assert.Contains(t, prompt, "I spent $10.88 on a sandwich at Subway today")
	assert.Contains(t, prompt, `"followUpQuestion"`)
	assert.Contains(t, prompt, `"reasoning"`)
	assert.NotContains(t, prompt, "Expense collected so far")
	assert.NotContains(t, prompt, "last question")
}

func TestBuildExpensePrompt_EmbedsContext(t *testing.T) {
	prompt := llm.BuildExpensePrompt(llm.PromptInput{
		CurrentDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Pending: &domain.DraftExpense{
			Description: "Coffee",
			Category:    domain.CategoryFoodDining,
			Date:        "2024-03-15",
		},
		LastQuestion: "How much did you spend on coffee?",
		UserText:     "$4.50",
	})

	assert.Contains(t, prompt, `{"description":"Coffee","category":"Food & Dining","date":"2024-03-15"}`)
	assert.Contains(t, prompt, `"How much did you spend on coffee?"`)
}

func TestBuildExpensePrompt_SkipsEmptyPending(t *testing.T) {
	prompt := llm.BuildExpensePrompt(llm.PromptInput{
		CurrentDate:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Pending:      &domain.DraftExpense{},
		LastQuestion: "   ",
		UserText:     "lunch",
	})

	assert.NotContains(t, prompt, "Expense collected so far")
	assert.NotContains(t, prompt, "last question")
}

func TestBuildFollowUpInput(t *testing.T) {
	in := llm.BuildFollowUpInput("How much did you spend on coffee?", "$4.50")
	assert.Contains(t, in, `"How much did you spend on coffee?"`)
	assert.Contains(t, in, `"$4.50"`)
	assert.Contains(t, in, "Merge")

	in = llm.BuildFollowUpInput("", "it was at Starbucks")
	assert.True(t, strings.HasPrefix(in, "Additional details"))
	assert.Contains(t, in, "it was at Starbucks")
}
