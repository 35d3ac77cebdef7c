package bankformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/models"
)

func TestMatchHeader(t *testing.T) {
	testCases := []struct {
		name         string
		headers      []string
		alternatives string
		want         string
		wantOK       bool
	}{
		{
			name:         "exact match preferred",
			headers:      []string{"date", "Date"},
			alternatives: "Date",
			want:         "Date",
			wantOK:       true,
		},
		{
			name:         "case insensitive",
			headers:      []string{"DATE"},
			alternatives: "Date",
			want:         "DATE",
			wantOK:       true,
		},
		{
			name:         "substring header contains alternative",
			headers:      []string{"Amount (GBP)"},
			alternatives: "Amount",
			want:         "Amount (GBP)",
			wantOK:       true,
		},
		{
			name:         "second alternative",
			headers:      []string{"Memo"},
			alternatives: "Description|Memo",
			want:         "Memo",
			wantOK:       true,
		},
		{
			name:         "no match",
			headers:      []string{"Foo"},
			alternatives: "Date|Amount",
			wantOK:       false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := MatchHeader(tc.headers, tc.alternatives)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestFieldValue(t *testing.T) {
	r := NewRegistry(logging.NewMockLogger())
	cfg := r.Get("barclays")
	require.NotNil(t, cfg)

	raw := models.RawRecord{
		"Number": "TXN001",
		"Date":   "25/12/2023",
		"Amount": " -45.99 ",
		"Memo":   "CARD PAYMENT TO TESCO STORES 1234",
	}

	v, ok := cfg.FieldValue(raw, FieldExternalID)
	assert.True(t, ok)
	assert.Equal(t, "TXN001", v)

	v, ok = cfg.FieldValue(raw, FieldAmount)
	assert.True(t, ok)
	assert.Equal(t, "-45.99", v, "values are trimmed")

	_, ok = cfg.FieldValue(raw, FieldCurrency)
	assert.False(t, ok, "barclays maps no currency column")
}

func TestCleanDescription(t *testing.T) {
	r := NewRegistry(logging.NewMockLogger())
	cfg := r.Get("barclays")
	require.NotNil(t, cfg)

	testCases := []struct {
		name         string
		input        string
		wantClean    string
		wantMerchant string
	}{
		{
			name:         "card payment with posting date tail",
			input:        "CARD PAYMENT TO TESCO STORES 1234 ON 25 DEC",
			wantClean:    "CARD PAYMENT TO TESCO STORES 1234",
			wantMerchant: "TESCO STORES 1234",
		},
		{
			name:         "direct debit with ref",
			input:        "DIRECT DEBIT TO OCTOPUS ENERGY REF OE-99",
			wantClean:    "DIRECT DEBIT TO OCTOPUS ENERGY",
			wantMerchant: "OCTOPUS ENERGY",
		},
		{
			name:         "trailing ref stripped",
			input:        "FASTER PAYMENT J SMITH REF X91",
			wantClean:    "FASTER PAYMENT J SMITH",
			wantMerchant: "",
		},
		{
			name:         "untouched",
			input:        "MONTHLY ACCOUNT FEE",
			wantClean:    "MONTHLY ACCOUNT FEE",
			wantMerchant: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clean, merchant := cfg.CleanDescription(tc.input)
			assert.Equal(t, tc.wantClean, clean)
			assert.Equal(t, tc.wantMerchant, merchant)
		})
	}
}

func TestInferType(t *testing.T) {
	r := NewRegistry(logging.NewMockLogger())
	cfg := r.Get("barclays")
	require.NotNil(t, cfg)

	testCases := []struct {
		name        string
		negative    bool
		description string
		want        models.TransactionType
	}{
		{name: "transfer keyword wins over sign", negative: true, description: "TRANSFER TO SAVINGS", want: models.TypeTransfer},
		{name: "negative is expense", negative: true, description: "CARD PAYMENT TO TESCO", want: models.TypeExpense},
		{name: "positive is income", negative: false, description: "SALARY ACME LTD", want: models.TypeIncome},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := cfg.InferType(tc.negative, tc.description, "")
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
