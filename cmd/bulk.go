package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/procureml/poclass/internal/batch"
	"github.com/procureml/poclass/internal/progress"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Classify a CSV of purchase order descriptions",
	Long: `Reads a CSV with a required "description" column and an optional
"supplier" column, classifies every row sequentially, and writes a results
CSV. Rows that fail are recorded with an error status; the run continues.`,
	RunE: runBulk,
}

func init() {
	bulkCmd.Flags().String("input", "", "input CSV path (required)")
	bulkCmd.Flags().String("output", "po_classification_results.csv", "output CSV path")
	bulkCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(bulkCmd)
}

func runBulk(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")

	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	rows, err := batch.ReadRows(f)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d rows.\n", len(rows))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cls, err := buildClassifier(cfg)
	if err != nil {
		return err
	}

	results := batch.RunBulk(context.Background(), cls, rows, progress.NewReporter())

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()
	if err := batch.WriteBulkCSV(out, results); err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, r := range results {
		counts[r.Status]++
	}
	fmt.Printf("Bulk classification complete: %d ok, %d needs review, %d skipped or failed.\n",
		counts[batch.StatusOK],
		counts[batch.StatusNeedsReview],
		len(results)-counts[batch.StatusOK]-counts[batch.StatusNeedsReview])
	fmt.Printf("Results written to %s\n", output)
	return nil
}
