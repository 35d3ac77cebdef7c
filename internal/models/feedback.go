package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeedbackRecord captures one user correction of an assigned category. The
// feedback log is append-only and exists for offline analysis; nothing in the
// ingestion path reads it back.
type FeedbackRecord struct {
	ID            string          `yaml:"id"`
	UserID        string          `yaml:"user_id"`
	TransactionID string          `yaml:"transaction_id,omitempty"`
	Description   string          `yaml:"description"`
	Merchant      string          `yaml:"merchant,omitempty"`
	Amount        decimal.Decimal `yaml:"amount"`
	OldCategoryID string          `yaml:"old_category_id,omitempty"`
	NewCategoryID string          `yaml:"new_category_id"`
	CreatedAt     time.Time       `yaml:"created_at"`
}
