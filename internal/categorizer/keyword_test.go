package categorizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
)

func testCategories() []models.Category {
	return []models.Category{
		{ID: "groceries", Name: "Groceries", Type: models.TypeExpense, Keywords: []string{"tesco", "sainsbury", "aldi", "supermarket"}},
		{ID: "dining", Name: "Dining Out", Type: models.TypeExpense, Keywords: []string{"costa", "restaurant", "coffee"}},
		{ID: "transport", Name: "Transport", Type: models.TypeExpense, Keywords: []string{"tfl", "uber", "petrol"}},
		{ID: "salary", Name: "Salary", Type: models.TypeIncome, Keywords: []string{"salary", "payroll"}},
	}
}

func TestKeywordStrategyWordMatch(t *testing.T) {
	s := NewKeywordStrategy(testCategories(), logging.NewMockLogger())

	out, err := s.Evaluate(context.Background(), expense("CARD PAYMENT TO TESCO STORES", "", 45.99))
	require.NoError(t, err)

	assert.Equal(t, "groceries", out.CategoryID)
	assert.Greater(t, out.Confidence, s.Threshold())
	assert.Equal(t, "tesco", out.Rule)
}

func TestKeywordStrategyDeterministic(t *testing.T) {
	s := NewKeywordStrategy(testCategories(), logging.NewMockLogger())
	tx := expense("CARD PAYMENT TO TESCO STORES", "", 45.99)

	first, err := s.Evaluate(context.Background(), tx)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := s.Evaluate(context.Background(), tx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestKeywordStrategySubstringWeaker(t *testing.T) {
	s := NewKeywordStrategy(testCategories(), logging.NewMockLogger())

	// "TESCOS" only contains "tesco" as a substring, not as a whole word.
	out, err := s.Evaluate(context.Background(), expense("TESCOS", "", 45.99))
	require.NoError(t, err)
	assert.Equal(t, "groceries", out.CategoryID)
	assert.Less(t, out.Confidence, wordMatchConfidence)
}

func TestKeywordStrategyTypeFilter(t *testing.T) {
	s := NewKeywordStrategy(testCategories(), logging.NewMockLogger())

	// An expense never lands in an income category, keyword hit or not.
	out, err := s.Evaluate(context.Background(), expense("SALARY REFUND", "", 100))
	require.NoError(t, err)
	assert.NotEqual(t, "salary", out.CategoryID)
}

func TestKeywordStrategyMerchantConsulted(t *testing.T) {
	s := NewKeywordStrategy(testCategories(), logging.NewMockLogger())

	out, err := s.Evaluate(context.Background(), expense("POS 9912", "Costa Coffee", 3.50))
	require.NoError(t, err)
	assert.Equal(t, "dining", out.CategoryID)
}

func TestKeywordStrategyNoMatch(t *testing.T) {
	s := NewKeywordStrategy(testCategories(), logging.NewMockLogger())

	out, err := s.Evaluate(context.Background(), expense("MYSTERY CHARGE", "", 10))
	require.NoError(t, err)
	assert.Empty(t, out.CategoryID)
	assert.Zero(t, out.Confidence)
}

func TestKeywordStrategySuggestionsRanked(t *testing.T) {
	s := NewKeywordStrategy(testCategories(), logging.NewMockLogger())

	// "coffee" hits dining as a word; "tesco" hits groceries as a word; the
	// amount heuristic nudges dining for a small expense.
	out, err := s.Evaluate(context.Background(), expense("COSTA COFFEE AT TESCO", "", 3.20))
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(out.Suggestions), 2)
	assert.Equal(t, "dining", out.CategoryID)
	for i := 1; i < len(out.Suggestions); i++ {
		assert.GreaterOrEqual(t, out.Suggestions[i-1].Confidence, out.Suggestions[i].Confidence)
	}
}
