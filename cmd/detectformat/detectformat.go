// Package detectformat handles the bank-format detection command.
package detectformat

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"ledgerflow/ingest/cmd/root"
	"ledgerflow/ingest/internal/export"
)

// Cmd represents the detect-format command.
var Cmd = &cobra.Command{
	Use:   "detect-format",
	Short: "Detect which bank format a CSV file is in",
	Long: `Detect-format reads the header row of a bank export CSV and reports the
best-matching registered bank format, with per-format scores.`,
	RunE: detectFunc,
}

var showScores bool

func init() {
	Cmd.Flags().BoolVarP(&showScores, "scores", "s", false, "Print the score of every registered format")
}

func detectFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}

	records, err := export.ReadRawRecordsFile(root.SharedFlags.Input)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s contains no records", root.SharedFlags.Input)
	}

	headers := records[0].Headers()
	code := root.App.Registry.Detect(headers, records[0])
	fmt.Printf("Detected format: %s\n", code)

	if showScores {
		scores := root.App.Registry.Scores(headers)
		codes := make([]string, 0, len(scores))
		for c := range scores {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		for _, c := range codes {
			fmt.Printf("  %-12s %.2f\n", c, scores[c])
		}
	}
	return nil
}
