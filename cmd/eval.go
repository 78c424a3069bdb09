package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/procureml/poclass/internal/batch"
	"github.com/procureml/poclass/internal/progress"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score predictions against a labeled CSV",
	Long: `Reads a CSV with columns description, supplier, L1, L2, L3 (gold labels),
classifies every row fresh, and reports per-row matches plus aggregate
accuracy. Rows with an empty description are skipped and not counted.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("input", "", "labeled CSV path (required)")
	evalCmd.Flags().String("output", "po_classification_evaluation.csv", "output CSV path")
	evalCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
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

	report := batch.RunEval(context.Background(), cls, rows, progress.NewReporter())

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()
	if err := batch.WriteEvalCSV(out, report); err != nil {
		return err
	}

	fmt.Printf("Accuracy: %.1f%% (%d/%d)\n", report.Accuracy(), report.Correct, report.Total)
	fmt.Printf("Evaluation written to %s\n", output)
	return nil
}
