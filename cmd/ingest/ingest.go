// Package ingest handles the main ingestion command: CSV file in, stored and
// categorized transactions out.
package ingest

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledgerflow/ingest/cmd/root"
	"ledgerflow/ingest/internal/export"
	"ledgerflow/ingest/internal/logging"
	"ledgerflow/ingest/internal/pipeline"
)

// Cmd represents the ingest command.
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a bank export CSV through the full pipeline",
	Long: `Ingest reads a bank export CSV, normalizes every row into a canonical
transaction, skips exact duplicates, enriches and categorizes the rest, and
optionally writes the stored transactions back out as CSV.`,
	RunE: ingestFunc,
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}

	records, err := export.ReadRawRecordsFile(root.SharedFlags.Input)
	if err != nil {
		return err
	}
	root.Log.Info("Read bank export",
		logging.Field{Key: "file", Value: root.SharedFlags.Input},
		logging.Field{Key: "records", Value: len(records)})

	summary := root.App.Pipeline.ProcessBatch(
		cmd.Context(), records,
		root.SharedFlags.Format,
		root.SharedFlags.Account,
		root.SharedFlags.User,
		root.App.Config.Batch.Workers,
	)

	for i, r := range summary.Results {
		switch r.Status {
		case pipeline.StatusFailed:
			root.Log.WithError(r.Err).Warn("Record failed",
				logging.Field{Key: "row", Value: i + 1})
		case pipeline.StatusDuplicate:
			root.Log.Info("Record skipped as duplicate",
				logging.Field{Key: "row", Value: i + 1},
				logging.Field{Key: "existing", Value: r.Duplicates.BestMatch.TransactionID})
		}
	}

	fmt.Printf("Ingested %d records: %d stored, %d duplicates, %d failed\n",
		summary.Total, summary.Stored, summary.Duplicates, summary.Failed)

	if root.SharedFlags.Output != "" {
		txs, err := root.App.Transactions.ListAccount(cmd.Context(), root.SharedFlags.Account)
		if err != nil {
			return err
		}
		if err := export.WriteTransactionsFile(root.SharedFlags.Output, txs); err != nil {
			return err
		}
		root.Log.Info("Wrote transactions",
			logging.Field{Key: "file", Value: root.SharedFlags.Output},
			logging.Field{Key: "count", Value: len(txs)})
	}
	return nil
}
