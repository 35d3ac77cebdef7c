// Package export reads and writes transactions as CSV, the interchange format
// the rest of the toolchain consumes.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"ledgerflow/ingest/internal/models"
)

// row is the flat CSV projection of a transaction.
type row struct {
	ID          string `csv:"id"`
	ExternalID  string `csv:"external_id"`
	AccountID   string `csv:"account_id"`
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
	Type        string `csv:"type"`
	Description string `csv:"description"`
	Merchant    string `csv:"merchant"`
	Location    string `csv:"location"`
	CategoryID  string `csv:"category_id"`
}

// WriteTransactions writes transactions as CSV to w.
func WriteTransactions(w io.Writer, txs []models.Transaction) error {
	rows := make([]row, 0, len(txs))
	for i := range txs {
		tx := &txs[i]
		rows = append(rows, row{
			ID:          tx.ID,
			ExternalID:  tx.ExternalID,
			AccountID:   tx.AccountID,
			Date:        tx.DateString(),
			Amount:      tx.Amount.StringFixed(2),
			Currency:    tx.Currency,
			Type:        string(tx.Type),
			Description: tx.Description,
			Merchant:    tx.Merchant,
			Location:    tx.Location,
			CategoryID:  tx.CategoryID,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write transactions csv: %w", err)
	}
	return nil
}

// WriteTransactionsFile writes transactions as CSV to the given path.
func WriteTransactionsFile(path string, txs []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTransactions(f, txs)
}

// ReadRawRecords reads a bank export CSV into raw records, preserving the
// file's own headers as keys.
func ReadRawRecords(r io.Reader) ([]models.RawRecord, error) {
	rows, err := gocsv.CSVToMaps(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	records := make([]models.RawRecord, 0, len(rows))
	for _, m := range rows {
		records = append(records, models.RawRecord(m))
	}
	return records, nil
}

// ReadRawRecordsFile reads a bank export CSV file into raw records.
func ReadRawRecordsFile(path string) ([]models.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRawRecords(f)
}
