// Package models provides the data structures shared across the ingestion
// pipeline: raw bank-export records, the canonical transaction shape, and the
// result types produced by duplicate detection, enrichment and categorization.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is one row from a bank export, keyed by the bank's own column
// headers. It is transient: consumed once per normalization call.
type RawRecord map[string]string

// Headers returns the record's column names. Order is not stable; callers
// that score headers must not depend on iteration order.
func (r RawRecord) Headers() []string {
	headers := make([]string, 0, len(r))
	for k := range r {
		headers = append(headers, k)
	}
	return headers
}

// TransactionType carries the direction of a transaction. The Amount field is
// always a non-negative magnitude; sign lives exclusively here.
type TransactionType string

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// Transaction is the canonical transaction shape every component downstream
// of the normalizer consumes. Dates are always resolved to a concrete
// calendar day, never left zero (unparsable dates fall back to today).
type Transaction struct {
	ID          string          `yaml:"id"`
	ExternalID  string          `yaml:"external_id,omitempty"` // bank-supplied id, optional
	AccountID   string          `yaml:"account_id"`
	UserID      string          `yaml:"user_id,omitempty"`
	Amount      decimal.Decimal `yaml:"amount"` // non-negative magnitude
	Currency    string          `yaml:"currency"`
	Date        time.Time       `yaml:"date"`
	Type        TransactionType `yaml:"type"`
	Description string          `yaml:"description"`
	Merchant    string          `yaml:"merchant,omitempty"`
	Location    string          `yaml:"location,omitempty"`
	CategoryID  string          `yaml:"category_id,omitempty"`
}

// DateString returns the transaction date as an ISO calendar date.
func (t *Transaction) DateString() string {
	return t.Date.Format("2006-01-02")
}

// HasExternalID reports whether the bank supplied a usable unique id.
func (t *Transaction) HasExternalID() bool {
	return strings.TrimSpace(t.ExternalID) != ""
}

// SignedAmount returns the amount with direction applied: negative for
// expenses, positive otherwise. Transfers keep the magnitude's sign positive;
// direction between accounts is not known at this layer.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// Clamp01 bounds a confidence or score value to [0,1]. Every score the
// pipeline emits goes through here.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
