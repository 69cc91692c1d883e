package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetbuddy/internal/domain"
)

func TestBuildExpenseWhere(t *testing.T) {
	userID := uuid.New()

	clause, args := buildExpenseWhere(userID, domain.ExpenseFilter{})
	assert.Equal(t, "WHERE user_id = $1", clause)
	assert.Equal(t, []interface{}{userID}, args)

	filter, err := domain.ParseExpenseFilter("2024-03-01", "2024-03-31", "Education")
	require.NoError(t, err)
	clause, args = buildExpenseWhere(userID, filter)
	assert.Equal(t, "WHERE user_id = $1 AND spent_on >= $2 AND spent_on <= $3 AND category = $4", clause)
	require.Len(t, args, 4)
	assert.Equal(t, domain.CategoryEducation, args[3])

	onlyCategory := domain.ExpenseFilter{Category: domain.CategoryOther}
	clause, args = buildExpenseWhere(userID, onlyCategory)
	assert.Equal(t, "WHERE user_id = $1 AND category = $2", clause)
	assert.Len(t, args, 2)
}
