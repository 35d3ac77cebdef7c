package duplicate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
	"ledgerflow/ingest/internal/store"
)

var _ AccountLister = (*store.MemoryTransactionStore)(nil)

func day(d int) time.Time {
	return time.Date(2023, 12, d, 0, 0, 0, 0, time.UTC)
}

func seed(t *testing.T, s *store.MemoryTransactionStore, txs ...models.Transaction) {
	t.Helper()
	for i := range txs {
		tx := txs[i]
		if tx.AccountID == "" {
			tx.AccountID = "acc-1"
		}
		require.NoError(t, s.Save(context.Background(), &tx))
	}
}

func TestDetectExternalIDShortCircuits(t *testing.T) {
	s := store.NewMemoryTransactionStore()
	seed(t, s, models.Transaction{
		ID:          "existing-1",
		ExternalID:  "TXN001",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(25),
		Description: "CARD PAYMENT TO TESCO STORES",
		Type:        models.TypeExpense,
	})
	d := NewDetector(s, logging.NewMockLogger())

	// Everything except the external id differs; the id alone decides.
	result, err := d.Detect(context.Background(), &models.Transaction{
		AccountID:   "acc-1",
		ExternalID:  "TXN001",
		Amount:      decimal.NewFromFloat(999.99),
		Date:        day(1),
		Description: "SOMETHING ELSE ENTIRELY",
		Type:        models.TypeExpense,
	}, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, result.IsDuplicate)
	assert.Equal(t, 1.0, result.Confidence)
	require.NotNil(t, result.BestMatch)
	assert.Equal(t, "existing-1", result.BestMatch.TransactionID)
	assert.True(t, result.BestMatch.Exact)
}

func TestDetectExactFieldMatch(t *testing.T) {
	s := store.NewMemoryTransactionStore()
	seed(t, s, models.Transaction{
		ID:          "existing-1",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(25),
		Description: "CARD PAYMENT TO TESCO STORES",
		Type:        models.TypeExpense,
	})
	d := NewDetector(s, logging.NewMockLogger())

	result, err := d.Detect(context.Background(), &models.Transaction{
		AccountID:   "acc-1",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(25),
		Description: "CARD PAYMENT TO TESCO STORES",
		Type:        models.TypeExpense,
	}, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, result.IsDuplicate)
	require.NotNil(t, result.BestMatch)
	assert.True(t, result.BestMatch.Exact, "same amount, day and description is an exact duplicate")
	assert.Equal(t, 1.0, result.BestMatch.Score, "score is capped at 1.0")
}

func TestDetectSameAmountAdjacentDay(t *testing.T) {
	// Same amount one day apart with dissimilar wording: amount weight plus
	// decayed date weight exactly reaches the threshold.
	s := store.NewMemoryTransactionStore()
	seed(t, s, models.Transaction{
		ID:          "existing-1",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(25),
		Description: "Tesco",
		Type:        models.TypeExpense,
	})
	d := NewDetector(s, logging.NewMockLogger())

	result, err := d.Detect(context.Background(), &models.Transaction{
		AccountID:   "acc-1",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(26),
		Description: "Tesco Stores",
		Type:        models.TypeExpense,
	}, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, result.IsDuplicate)
	require.NotNil(t, result.BestMatch)
	assert.InDelta(t, 0.8, result.BestMatch.Score, 0.0001)
	assert.False(t, result.BestMatch.Exact, "flagged for review, not auto-resolved")
}

func TestDetectUnrelatedTransaction(t *testing.T) {
	s := store.NewMemoryTransactionStore()
	seed(t, s, models.Transaction{
		ID:          "existing-1",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(25),
		Description: "CARD PAYMENT TO TESCO STORES",
		Type:        models.TypeExpense,
	})
	d := NewDetector(s, logging.NewMockLogger())

	result, err := d.Detect(context.Background(), &models.Transaction{
		AccountID:   "acc-1",
		Amount:      decimal.NewFromFloat(12.50),
		Date:        day(28),
		Description: "NETFLIX SUBSCRIPTION",
		Type:        models.TypeExpense,
	}, DefaultOptions())
	require.NoError(t, err)

	assert.False(t, result.IsDuplicate)
	assert.Empty(t, result.Matches)
}

func TestDetectScopedToAccount(t *testing.T) {
	s := store.NewMemoryTransactionStore()
	seed(t, s, models.Transaction{
		ID:          "other-account",
		AccountID:   "acc-2",
		ExternalID:  "TXN001",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(25),
		Description: "CARD PAYMENT TO TESCO STORES",
		Type:        models.TypeExpense,
	})
	d := NewDetector(s, logging.NewMockLogger())

	result, err := d.Detect(context.Background(), &models.Transaction{
		AccountID:   "acc-1",
		ExternalID:  "TXN001",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(25),
		Description: "CARD PAYMENT TO TESCO STORES",
		Type:        models.TypeExpense,
	}, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, result.IsDuplicate, "duplicates never cross account boundaries")
}

func TestDetectOutsideWindowIgnored(t *testing.T) {
	s := store.NewMemoryTransactionStore()
	seed(t, s, models.Transaction{
		ID:          "existing-1",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(20),
		Description: "CARD PAYMENT TO TESCO STORES",
		Type:        models.TypeExpense,
	})
	d := NewDetector(s, logging.NewMockLogger())

	result, err := d.Detect(context.Background(), &models.Transaction{
		AccountID:   "acc-1",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(28),
		Description: "CARD PAYMENT TO TESCO STORES",
		Type:        models.TypeExpense,
	}, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, result.IsDuplicate)
}

func TestDetectCapsMatches(t *testing.T) {
	s := store.NewMemoryTransactionStore()
	for i := 0; i < 8; i++ {
		seed(t, s, models.Transaction{
			ID:          fmt.Sprintf("existing-%d", i),
			Amount:      decimal.NewFromFloat(45.99),
			Date:        day(25),
			Description: "CARD PAYMENT TO TESCO STORES",
			Type:        models.TypeExpense,
		})
	}
	d := NewDetector(s, logging.NewMockLogger())

	result, err := d.Detect(context.Background(), &models.Transaction{
		AccountID:   "acc-1",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(25),
		Description: "CARD PAYMENT TO TESCO STORES",
		Type:        models.TypeExpense,
	}, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, result.IsDuplicate)
	assert.Len(t, result.Matches, 5)
}

func TestDetectMatchesSortedByScore(t *testing.T) {
	s := store.NewMemoryTransactionStore()
	seed(t, s,
		models.Transaction{
			ID: "same-day", Amount: decimal.NewFromFloat(45.99), Date: day(25),
			Description: "CARD PAYMENT TO TESCO STORES", Type: models.TypeExpense,
		},
		models.Transaction{
			ID: "next-day", Amount: decimal.NewFromFloat(45.99), Date: day(26),
			Description: "Tesco", Type: models.TypeExpense,
		},
	)
	d := NewDetector(s, logging.NewMockLogger())

	result, err := d.Detect(context.Background(), &models.Transaction{
		AccountID:   "acc-1",
		Amount:      decimal.NewFromFloat(45.99),
		Date:        day(25),
		Description: "CARD PAYMENT TO TESCO STORES",
		Type:        models.TypeExpense,
	}, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, result.Matches, 2)
	assert.Equal(t, "same-day", result.Matches[0].TransactionID)
	assert.GreaterOrEqual(t, result.Matches[0].Score, result.Matches[1].Score)
}
