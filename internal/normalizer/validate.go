package normalizer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ledgerflow/ingest/internal/models"
)

// Plausibility bounds. Violations are warnings, never hard errors; the data
// may still be correct (backfills, scheduled payments, house purchases).
var (
	maxPlausibleAmount = decimal.NewFromInt(1_000_000)
	maxDescriptionLen  = 500
	maxPastYears       = 2
	maxFutureYears     = 1
)

// ValidationResult separates hard errors (the record is unusable) from
// warnings (the record is suspicious but accepted).
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// Validate applies required-field checks as errors and plausibility checks
// as warnings.
func (n *Normalizer) Validate(tx *models.Transaction) ValidationResult {
	res := ValidationResult{Valid: true}

	if tx == nil {
		return ValidationResult{Valid: false, Errors: []string{"transaction is nil"}}
	}

	if tx.Amount.IsZero() {
		res.Errors = append(res.Errors, "amount is zero")
	}
	if tx.Date.IsZero() {
		res.Errors = append(res.Errors, "date is missing")
	}
	if tx.Description == "" {
		res.Errors = append(res.Errors, "description is empty")
	}

	now := n.now().UTC()
	if !tx.Date.IsZero() {
		if tx.Date.Before(now.AddDate(-maxPastYears, 0, 0)) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("date %s is more than %d years in the past", tx.DateString(), maxPastYears))
		}
		if tx.Date.After(now.AddDate(maxFutureYears, 0, 0)) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("date %s is more than %d year(s) in the future", tx.DateString(), maxFutureYears))
		}
	}
	if tx.Amount.GreaterThan(maxPlausibleAmount) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("amount %s exceeds plausibility bound", tx.Amount.StringFixed(2)))
	}
	if len(tx.Description) > maxDescriptionLen {
		res.Warnings = append(res.Warnings, fmt.Sprintf("description is %d characters long", len(tx.Description)))
	}

	res.Valid = len(res.Errors) == 0
	return res
}
