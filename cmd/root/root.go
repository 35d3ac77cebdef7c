// Package root contains the root command for the application
package root

import (
	"github.com/spf13/cobra"

	"ledgerflow/ingest/internal/config"
	"ledgerflow/ingest/internal/container"
	"ledgerflow/ingest/internal/logging"
)

// CommonFlags represents the flags shared by multiple commands.
type CommonFlags struct {
	Input   string
	Output  string
	Format  string
	Account string
	User    string
}

var (
	// Log is the shared logger instance for commands. Replaced with the
	// configured adapter in PersistentPreRun.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// App is the wired application, available to subcommands after PersistentPreRun.
	App *container.Container

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "ledgerflow",
		Short: "Ingest, deduplicate, categorize and enrich bank transactions.",
		Long: `ledgerflow ingests raw bank-export CSV files into canonical transactions.
It detects the bank format, flags duplicates, assigns categories and enriches
transactions with merchant and payment metadata.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			Log.Info("Welcome to ledgerflow!")
			Log.Info("Use --help to see available commands")
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Log = logging.NewLogrusAdapter(cfg.LogLevel, cfg.LogFormat)
			App, err = container.New(cfg, Log)
			return err
		},
	}

	// SharedFlags holds the common flag values.
	SharedFlags = CommonFlags{}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "", "Bank format code (auto-detect when empty)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Account, "account", "a", "default", "Account ID to ingest into")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.User, "user", "u", "default", "User ID owning the transactions")
}
