// Package categorize handles the one-off transaction categorization command.
package categorize

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"ledgerflow/ingest/cmd/root"
	"ledgerflow/ingest/internal/models"
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a single transaction from the command line",
	Long: `Categorize runs the strategy cascade (custom rules, keywords, history)
against a transaction described on the command line and prints the result.`,
	RunE: categorizeFunc,
}

var (
	description string
	merchant    string
	amount      string
	txType      string
)

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "Merchant name (optional)")
	Cmd.Flags().StringVar(&amount, "amount", "0", "Transaction amount")
	Cmd.Flags().StringVarP(&txType, "type", "t", "expense", "Transaction type (income|expense|transfer)")
	Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}

	tx := &models.Transaction{
		UserID:      root.SharedFlags.User,
		Description: description,
		Merchant:    merchant,
		Amount:      amt.Abs(),
		Type:        models.TransactionType(txType),
	}

	result, err := root.App.Engine.Categorize(cmd.Context(), tx)
	if err != nil {
		return err
	}

	if result.CategoryID == "" {
		fmt.Println("No category confident enough; manual categorization needed")
	} else {
		fmt.Printf("Category: %s (strategy %s, confidence %.2f)\n",
			result.CategoryID, result.Strategy, result.Confidence)
		if result.Rule != "" {
			fmt.Printf("Matched: %s\n", result.Rule)
		}
	}
	for _, s := range result.Suggestions {
		fmt.Printf("  suggestion: %-20s %.2f (%s)\n", s.CategoryID, s.Confidence, s.Source)
	}
	return nil
}
