// Package dedupe handles the offline duplicate scan command.
package dedupe

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledgerflow/ingest/cmd/root"
	"ledgerflow/ingest/internal/export"
	"ledgerflow/ingest/internal/logging"
)

// Cmd represents the dedupe command.
var Cmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Scan an ingested CSV for duplicate transactions",
	Long: `Dedupe ingests a transactions CSV without the categorization stages, scans
the account for duplicate pairs, and reports which would be auto-resolved
(exact matches) versus which need review.`,
	RunE: dedupeFunc,
}

var resolve bool

func init() {
	Cmd.Flags().BoolVarP(&resolve, "resolve", "r", false, "Delete the later transaction of every exact pair")
}

func dedupeFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}

	records, err := export.ReadRawRecordsFile(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	batch := root.App.Normalizer.NormalizeBatch(records, root.SharedFlags.Format)
	for _, be := range batch.Errors {
		root.Log.WithError(be.Err).Warn("Record not normalized",
			logging.Field{Key: "row", Value: be.Index + 1})
	}
	for _, tx := range batch.Normalized {
		tx.AccountID = root.SharedFlags.Account
		tx.UserID = root.SharedFlags.User
		if err := root.App.Transactions.Save(cmd.Context(), tx); err != nil {
			root.Log.WithError(err).Warn("Record not stored for scan")
		}
	}

	report, err := root.App.Scanner.ScanAccount(cmd.Context(), root.SharedFlags.Account, root.App.Config.DuplicateOptions())
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %d transactions: %d exact duplicate pair(s), %d pair(s) for review\n",
		report.Scanned, report.Exact, report.Review)
	for _, pair := range report.Pairs {
		marker := "review"
		if pair.Match.Exact {
			marker = "exact"
		}
		fmt.Printf("  [%s] keep %s, remove %s (score %.2f)\n",
			marker, pair.KeepID, pair.RemoveID, pair.Match.Score)
	}

	if resolve {
		for _, pair := range report.ExactPairs() {
			if err := root.App.Transactions.Delete(cmd.Context(), pair.RemoveID); err != nil {
				return err
			}
		}
		fmt.Printf("Resolved %d exact pair(s)\n", len(report.ExactPairs()))
	}
	return nil
}
