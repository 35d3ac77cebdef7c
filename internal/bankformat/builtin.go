package bankformat

import (
	"ledgerflow/ingest/internal/models"
)

// Builtin returns the compiled-in bank format configs. Deployments extend or
// override them through config/formats.yaml without a rebuild; these are the
// tested baseline.
func Builtin() []FormatConfig {
	return []FormatConfig{
		{
			Code:    "barclays",
			Name:    "Barclays",
			Version: "2024.1",
			Fields: map[string]string{
				FieldDate:        "Date",
				FieldAmount:      "Amount",
				FieldDescription: "Memo|Description",
				FieldExternalID:  "Number",
			},
			DateFormats: []string{"02/01/2006", "2006-01-02"},
			Amount: AmountEncoding{
				DecimalSeparator:   ".",
				ThousandsSeparator: ",",
				NegativeStyle:      NegativeMinus,
				CurrencySymbols:    []string{"£"},
			},
			Cleanup: []CleanupRule{
				// Trim the posting-date tail but keep the payment prefix;
				// payment-method inference reads it later.
				{Pattern: `^CARD PAYMENT TO\s+(.+?)(\s+ON\s+\d.*)?$`, Replace: "CARD PAYMENT TO ${1}", ExtractMerchant: true},
				{Pattern: `^DIRECT DEBIT(?: PAYMENT)? TO\s+(.+?)(\s+REF\b.*)?$`, Replace: "DIRECT DEBIT TO ${1}", ExtractMerchant: true},
				{Pattern: `\s+REF\s+\S+$`, Replace: ""},
			},
			TypeRules: []TypeRule{
				{Field: "description", Op: "contains", Value: "transfer", Type: models.TypeTransfer},
				{Field: "amount", Op: "negative", Type: models.TypeExpense},
				{Field: "amount", Op: "positive", Type: models.TypeIncome},
			},
		},
		{
			Code:    "hsbc",
			Name:    "HSBC",
			Version: "2024.1",
			Fields: map[string]string{
				FieldDate:        "Date",
				FieldAmount:      "Amount|Paid out",
				FieldDescription: "Description|Narrative",
			},
			DateFormats: []string{"02/01/2006", "02 Jan 2006"},
			Amount: AmountEncoding{
				DecimalSeparator:   ".",
				ThousandsSeparator: ",",
				NegativeStyle:      NegativeSuffix,
				DebitSuffix:        "D",
				CreditSuffix:       "C",
				CurrencySymbols:    []string{"£"},
			},
			Cleanup: []CleanupRule{
				{Pattern: `^(?:VIS|DD|SO|BP|CR|ATM)\s+`, Replace: ""},
				{Pattern: `\)\)\)$`, Replace: ""},
			},
			TypeRules: []TypeRule{
				{Field: "description", Op: "regex", Value: `\b(TFR|TRANSFER)\b`, Type: models.TypeTransfer},
				{Field: "amount", Op: "negative", Type: models.TypeExpense},
				{Field: "amount", Op: "positive", Type: models.TypeIncome},
			},
		},
		{
			Code:    "monzo",
			Name:    "Monzo",
			Version: "2024.1",
			Fields: map[string]string{
				FieldDate:        "Date",
				FieldAmount:      "Amount",
				FieldDescription: "Description|Notes and #tags",
				FieldExternalID:  "Transaction ID",
				FieldCurrency:    "Currency",
				FieldMerchant:    "Name",
				FieldLocation:    "Address",
			},
			DateFormats: []string{"2006-01-02", "02/01/2006"},
			Amount: AmountEncoding{
				DecimalSeparator:   ".",
				ThousandsSeparator: ",",
				NegativeStyle:      NegativeMinus,
			},
			TypeRules: []TypeRule{
				{Field: "description", Op: "contains", Value: "pot transfer", Type: models.TypeTransfer},
				{Field: "amount", Op: "negative", Type: models.TypeExpense},
				{Field: "amount", Op: "positive", Type: models.TypeIncome},
			},
		},
		{
			Code:    "revolut",
			Name:    "Revolut",
			Version: "2024.1",
			Fields: map[string]string{
				FieldDate:        "Completed Date|Started Date",
				FieldAmount:      "Amount",
				FieldDescription: "Description",
				FieldCurrency:    "Currency",
			},
			DateFormats: []string{"2006-01-02 15:04:05", "2006-01-02"},
			Amount: AmountEncoding{
				DecimalSeparator:   ".",
				ThousandsSeparator: ",",
				NegativeStyle:      NegativeMinus,
			},
			Cleanup: []CleanupRule{
				{Pattern: `^(?:Payment from|To)\s+(.+)$`, Replace: "${1}", ExtractMerchant: true},
			},
			TypeRules: []TypeRule{
				{Field: "description", Op: "regex", Value: `^(Top-Up|Exchange)`, Type: models.TypeTransfer},
				{Field: "amount", Op: "negative", Type: models.TypeExpense},
				{Field: "amount", Op: "positive", Type: models.TypeIncome},
			},
		},
		{
			// The fallback when nothing else matches. Field alternatives are
			// deliberately broad; it never wins detection against a specific
			// bank whose mapping fully matches.
			Code: GenericCode,
			Name: "Generic",
			Fields: map[string]string{
				FieldDate:        "Date|Transaction Date|Posting Date",
				FieldAmount:      "Amount|Value",
				FieldDescription: "Description|Details|Narrative|Memo",
				FieldExternalID:  "Transaction ID|Reference",
			},
			DateFormats: nil, // general parsing only
			Amount: AmountEncoding{
				DecimalSeparator:   ".",
				ThousandsSeparator: ",",
				NegativeStyle:      NegativeMinus,
				CurrencySymbols:    []string{"£", "$", "€"},
			},
			TypeRules: []TypeRule{
				{Field: "description", Op: "contains", Value: "transfer", Type: models.TypeTransfer},
				{Field: "amount", Op: "negative", Type: models.TypeExpense},
				{Field: "amount", Op: "positive", Type: models.TypeIncome},
			},
		},
	}
}
