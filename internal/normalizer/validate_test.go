package normalizer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"ledgerflow/ingest/internal/models"
)

func TestValidate(t *testing.T) {
	n, _ := newTestNormalizer(t)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	n.SetClock(func() time.Time { return now })

	valid := func() *models.Transaction {
		return &models.Transaction{
			Amount:      decimal.NewFromFloat(45.99),
			Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Description: "CARD PAYMENT TO TESCO STORES",
			Type:        models.TypeExpense,
		}
	}

	t.Run("valid transaction", func(t *testing.T) {
		res := n.Validate(valid())
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
		assert.Empty(t, res.Warnings)
	})

	t.Run("nil transaction", func(t *testing.T) {
		res := n.Validate(nil)
		assert.False(t, res.Valid)
	})

	t.Run("zero amount is an error", func(t *testing.T) {
		tx := valid()
		tx.Amount = decimal.Zero
		res := n.Validate(tx)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Errors, "amount is zero")
	})

	t.Run("empty description is an error", func(t *testing.T) {
		tx := valid()
		tx.Description = ""
		res := n.Validate(tx)
		assert.False(t, res.Valid)
	})

	t.Run("far future date warns but stays valid", func(t *testing.T) {
		tx := valid()
		tx.Date = now.AddDate(2, 0, 0)
		res := n.Validate(tx)
		assert.True(t, res.Valid)
		assert.NotEmpty(t, res.Warnings)
	})

	t.Run("ancient date warns but stays valid", func(t *testing.T) {
		tx := valid()
		tx.Date = now.AddDate(-3, 0, 0)
		res := n.Validate(tx)
		assert.True(t, res.Valid)
		assert.NotEmpty(t, res.Warnings)
	})

	t.Run("implausible amount warns", func(t *testing.T) {
		tx := valid()
		tx.Amount = decimal.NewFromInt(2_000_000)
		res := n.Validate(tx)
		assert.True(t, res.Valid)
		assert.NotEmpty(t, res.Warnings)
	})
}
