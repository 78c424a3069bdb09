package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "poclass",
	Short: "LLM-backed purchase order category classification",
	Long: `poclass classifies free-text purchase order descriptions into a fixed
three-level category taxonomy (L1/L2/L3) using a remote LLM, validating
every answer against the taxonomy. It supports single classifications,
bulk CSV runs, accuracy evaluation against labeled data, and a local
HTTP API for a browser front-end.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		// API keys commonly live in a local .env during development.
		_ = godotenv.Load()
	})
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".poclass.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
