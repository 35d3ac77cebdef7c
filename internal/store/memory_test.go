package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerflow/ingest/internal/models"
)

func day(d int) time.Time {
	return time.Date(2023, 12, d, 0, 0, 0, 0, time.UTC)
}

func TestSaveAssignsID(t *testing.T) {
	s := NewMemoryTransactionStore()
	tx := &models.Transaction{AccountID: "acc-1", Description: "x", Date: day(1)}

	require.NoError(t, s.Save(context.Background(), tx))
	assert.NotEmpty(t, tx.ID)

	got, err := s.Get(context.Background(), tx.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x", got.Description)
}

func TestSaveRejectsDuplicateExternalID(t *testing.T) {
	s := NewMemoryTransactionStore()
	first := &models.Transaction{AccountID: "acc-1", ExternalID: "TXN001", Date: day(1)}
	require.NoError(t, s.Save(context.Background(), first))

	err := s.Save(context.Background(), &models.Transaction{AccountID: "acc-1", ExternalID: "TXN001", Date: day(2)})
	assert.Error(t, err)

	// Same external id in a different account is fine.
	assert.NoError(t, s.Save(context.Background(), &models.Transaction{AccountID: "acc-2", ExternalID: "TXN001", Date: day(2)}))
}

func TestSaveUpdateKeepsSingleEntry(t *testing.T) {
	s := NewMemoryTransactionStore()
	tx := &models.Transaction{AccountID: "acc-1", ExternalID: "TXN001", Date: day(1)}
	require.NoError(t, s.Save(context.Background(), tx))

	tx.CategoryID = "groceries"
	require.NoError(t, s.Save(context.Background(), tx))

	all, err := s.ListAccount(context.Background(), "acc-1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "groceries", all[0].CategoryID)
}

func TestStoredCopyIsIsolated(t *testing.T) {
	s := NewMemoryTransactionStore()
	tx := &models.Transaction{AccountID: "acc-1", Description: "original", Date: day(1)}
	require.NoError(t, s.Save(context.Background(), tx))

	tx.Description = "mutated after save"

	got, err := s.Get(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Description)
}

func TestFindByExternalID(t *testing.T) {
	s := NewMemoryTransactionStore()
	require.NoError(t, s.Save(context.Background(), &models.Transaction{
		AccountID: "acc-1", ExternalID: "TXN001", Date: day(1),
	}))

	got, err := s.FindByExternalID(context.Background(), "acc-1", "TXN001")
	require.NoError(t, err)
	assert.NotNil(t, got)

	got, err = s.FindByExternalID(context.Background(), "acc-1", "TXN999")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.FindByExternalID(context.Background(), "acc-2", "TXN001")
	require.NoError(t, err)
	assert.Nil(t, got, "lookups never cross accounts")
}

func TestFindInDateRangeInclusive(t *testing.T) {
	s := NewMemoryTransactionStore()
	for d := 1; d <= 10; d++ {
		require.NoError(t, s.Save(context.Background(), &models.Transaction{
			AccountID: "acc-1", Date: day(d),
		}))
	}

	got, err := s.FindInDateRange(context.Background(), "acc-1", day(3), day(6))
	require.NoError(t, err)
	require.Len(t, got, 4, "both bounds are inclusive")
	assert.Equal(t, day(3), got[0].Date)
	assert.Equal(t, day(6), got[3].Date)
}

func TestDelete(t *testing.T) {
	s := NewMemoryTransactionStore()
	tx := &models.Transaction{AccountID: "acc-1", ExternalID: "TXN001", Date: day(1)}
	require.NoError(t, s.Save(context.Background(), tx))

	require.NoError(t, s.Delete(context.Background(), tx.ID))

	got, err := s.Get(context.Background(), tx.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// The external id index is released too.
	assert.NoError(t, s.Save(context.Background(), &models.Transaction{
		AccountID: "acc-1", ExternalID: "TXN001", Date: day(2),
	}))

	assert.NoError(t, s.Delete(context.Background(), "no-such-id"))
}

func TestListRecentCategorized(t *testing.T) {
	s := NewMemoryTransactionStore()
	for d := 1; d <= 5; d++ {
		require.NoError(t, s.Save(context.Background(), &models.Transaction{
			AccountID: "acc-1", UserID: "user-1", Date: day(d),
			Type: models.TypeExpense, CategoryID: "groceries",
			Amount: decimal.NewFromInt(int64(d)),
		}))
	}
	// Uncategorized and foreign rows must not appear.
	require.NoError(t, s.Save(context.Background(), &models.Transaction{
		AccountID: "acc-1", UserID: "user-1", Date: day(6), Type: models.TypeExpense,
	}))
	require.NoError(t, s.Save(context.Background(), &models.Transaction{
		AccountID: "acc-1", UserID: "user-2", Date: day(7), Type: models.TypeExpense, CategoryID: "dining",
	}))

	got, err := s.ListRecentCategorized(context.Background(), "user-1", models.TypeExpense, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, day(5), got[0].Date, "newest first")
	for _, tx := range got {
		assert.Equal(t, "user-1", tx.UserID)
		assert.NotEmpty(t, tx.CategoryID)
	}
}
