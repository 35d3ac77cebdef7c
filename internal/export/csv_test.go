package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerflow/ingest/internal/models"
)

func TestWriteTransactions(t *testing.T) {
	txs := []models.Transaction{
		{
			ID:          "id-1",
			ExternalID:  "TXN001",
			AccountID:   "acc-1",
			Amount:      decimal.NewFromFloat(45.99),
			Currency:    "GBP",
			Date:        time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC),
			Type:        models.TypeExpense,
			Description: "CARD PAYMENT TO TESCO STORES",
			Merchant:    "Tesco Stores",
			CategoryID:  "groceries",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, txs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,external_id,account_id,date,amount,currency,type,description,merchant,location,category_id", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "45.99")
	assert.Contains(t, lines[1], "2023-12-25")
	assert.Contains(t, lines[1], "expense")
}

func TestReadRawRecords(t *testing.T) {
	csv := strings.Join([]string{
		"Number,Date,Amount,Memo",
		"TXN001,25/12/2023,-45.99,CARD PAYMENT TO TESCO STORES",
		"TXN002,26/12/2023,-12.00,COSTA COFFEE",
	}, "\n")

	records, err := ReadRawRecords(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "TXN001", records[0]["Number"])
	assert.Equal(t, "-45.99", records[0]["Amount"])
	assert.ElementsMatch(t, []string{"Number", "Date", "Amount", "Memo"}, records[0].Headers())
}

func TestReadRawRecordsEmptyBody(t *testing.T) {
	records, err := ReadRawRecords(strings.NewReader("Number,Date,Amount,Memo\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}
