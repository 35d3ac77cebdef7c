package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ledgerflow/ingest/cmd/categorize"
	"ledgerflow/ingest/cmd/dedupe"
	"ledgerflow/ingest/cmd/detectformat"
	"ledgerflow/ingest/cmd/ingest"
	"ledgerflow/ingest/cmd/root"
)

func init() {
	// Load environment variables silently before any logging is configured.
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(detectformat.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(dedupe.Cmd)
}

// loadEnvSilently loads a .env file without logging anything.
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return
	}
	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
