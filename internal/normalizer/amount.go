package normalizer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerflow/ingest/internal/bankformat"
)

// parseAmount resolves a raw amount string against a bank's amount encoding.
// It returns the magnitude and whether the raw value was marked negative.
func parseAmount(raw string, enc bankformat.AmountEncoding) (decimal.Decimal, bool, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false, fmt.Errorf("empty amount")
	}

	for _, sym := range enc.CurrencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(s)

	negative := false
	switch enc.NegativeStyle {
	case bankformat.NegativeParens:
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			negative = true
			s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		}
	case bankformat.NegativeSuffix:
		upper := strings.ToUpper(s)
		debit := strings.ToUpper(enc.DebitSuffix)
		credit := strings.ToUpper(enc.CreditSuffix)
		if debit != "" && strings.HasSuffix(upper, debit) {
			negative = true
			s = strings.TrimSpace(s[:len(s)-len(debit)])
		} else if credit != "" && strings.HasSuffix(upper, credit) {
			s = strings.TrimSpace(s[:len(s)-len(credit)])
		}
	}
	// A plain minus sign is honored regardless of the declared style; banks
	// are not consistent even within one export.
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}

	if enc.ThousandsSeparator != "" && enc.ThousandsSeparator != enc.DecimalSeparator {
		s = strings.ReplaceAll(s, enc.ThousandsSeparator, "")
	}
	if enc.DecimalSeparator != "" && enc.DecimalSeparator != "." {
		s = strings.ReplaceAll(s, enc.DecimalSeparator, ".")
	}
	s = strings.ReplaceAll(s, " ", "")

	dec, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("unparsable amount %q: %w", raw, err)
	}
	if dec.IsNegative() {
		negative = true
		dec = dec.Abs()
	}
	return dec, negative, nil
}
