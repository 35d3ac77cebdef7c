// Package normalizer converts raw bank-export records into the canonical
// transaction shape using the declarative bank format configs. Normalization
// is deterministic: the same record and format always produce the same
// transaction (modulo the documented today-fallback for unparsable dates).
package normalizer

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ledgerflow/ingest/internal/bankformat"
	"ledgerflow/ingest/internal/dateutils"
	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
	"ledgerflow/ingest/internal/pipeerror"
	"ledgerflow/ingest/internal/textutils"
)

// Normalizer maps raw records onto canonical transactions.
type Normalizer struct {
	registry *bankformat.Registry
	logger   logging.Logger
	now      func() time.Time // injectable clock for the date fallback
}

// New creates a Normalizer over the given format registry.
func New(registry *bankformat.Registry, logger logging.Logger) *Normalizer {
	return &Normalizer{
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the clock used for the unparsable-date fallback.
// Intended for tests.
func (n *Normalizer) SetClock(now func() time.Time) {
	n.now = now
}

// DetectFormat picks the best-matching format code for a record's headers.
func (n *Normalizer) DetectFormat(raw models.RawRecord) string {
	return n.registry.Detect(raw.Headers(), raw)
}

// Normalize converts one raw record using the named format (generic when the
// code is unknown). It returns an error only on unrecoverable structural
// failure: a record with neither an extractable description nor an amount.
func (n *Normalizer) Normalize(raw models.RawRecord, formatCode string) (*models.Transaction, error) {
	cfg := n.registry.Get(formatCode)
	if cfg == nil {
		return nil, &pipeerror.NormalizeError{Format: formatCode, Err: fmt.Errorf("no format registered")}
	}

	description, hasDescription := cfg.FieldValue(raw, bankformat.FieldDescription)
	amountRaw, hasAmount := cfg.FieldValue(raw, bankformat.FieldAmount)
	if (!hasDescription || description == "") && (!hasAmount || amountRaw == "") {
		return nil, &pipeerror.NormalizeError{
			Format: cfg.Code,
			Err:    fmt.Errorf("record has neither description nor amount"),
		}
	}

	tx := &models.Transaction{Type: models.TypeIncome}

	if v, ok := cfg.FieldValue(raw, bankformat.FieldExternalID); ok {
		tx.ExternalID = v
	}
	if v, ok := cfg.FieldValue(raw, bankformat.FieldCurrency); ok && v != "" {
		tx.Currency = v
	} else {
		tx.Currency = "GBP"
	}
	if v, ok := cfg.FieldValue(raw, bankformat.FieldLocation); ok {
		tx.Location = v
	}

	negative := false
	if amountRaw != "" {
		amount, neg, err := parseAmount(amountRaw, cfg.Amount)
		if err != nil {
			n.logger.WithError(err).Debug("Amount unparsable, defaulting to zero",
				logging.Field{Key: "format", Value: cfg.Code})
			amount = decimal.Zero
		}
		tx.Amount = amount
		negative = neg
	}

	cleaned, capturedMerchant := cfg.CleanDescription(description)
	tx.Description = cleaned
	if capturedMerchant != "" {
		tx.Merchant = textutils.TitleCase(capturedMerchant)
	}
	if v, ok := cfg.FieldValue(raw, bankformat.FieldMerchant); ok && v != "" {
		tx.Merchant = v
	}

	tx.Date = n.resolveDate(raw, cfg)

	if inferred, ok := cfg.InferType(negative, tx.Description, tx.Merchant); ok {
		tx.Type = inferred
	} else if negative {
		// Sign-based default: negative raw amounts are expenses, everything
		// else income. An explicit policy, not an accident.
		tx.Type = models.TypeExpense
	} else {
		tx.Type = models.TypeIncome
	}

	return tx, nil
}

// resolveDate parses the date field through the config's formats, then the
// general format list, and finally falls back to today's date. The fallback
// is a documented policy: a record is never dropped for a bad date, and the
// fallback is always visible in the validation warnings.
func (n *Normalizer) resolveDate(raw models.RawRecord, cfg *bankformat.FormatConfig) time.Time {
	dateRaw, ok := cfg.FieldValue(raw, bankformat.FieldDate)
	if ok && dateRaw != "" {
		if t, _, err := dateutils.Parse(dateRaw, cfg.DateFormats); err == nil {
			return t
		}
		if t, _, err := dateutils.ParseGeneral(dateRaw); err == nil {
			return t
		}
		n.logger.Warn("Unparsable date, falling back to today",
			logging.Field{Key: "format", Value: cfg.Code},
			logging.Field{Key: "date", Value: dateRaw})
	}
	return dateutils.DateOnly(n.now().UTC())
}
