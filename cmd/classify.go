package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/procureml/poclass/internal/classify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [description]",
	Short: "Classify a single purchase order description",
	Long: `Classifies one PO description into the L1/L2/L3 taxonomy and prints the
validated result. Pass the description as arguments or via --description.`,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().String("description", "", "PO description (alternative to positional args)")
	classifyCmd.Flags().String("supplier", "", "optional supplier name")
	classifyCmd.Flags().Bool("json", false, "print the full parsed classification as JSON")
	classifyCmd.Flags().Bool("feedback", false, "capture a corrected label interactively")
	classifyCmd.Flags().String("feedback-out", "po_classification_feedback.csv", "CSV file for captured feedback")
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")
	if description == "" {
		description = strings.Join(args, " ")
	}
	supplier, _ := cmd.Flags().GetString("supplier")
	asJSON, _ := cmd.Flags().GetBool("json")
	wantFeedback, _ := cmd.Flags().GetBool("feedback")

	req, err := classify.NewRequest(description, supplier)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cls, err := buildClassifier(cfg)
	if err != nil {
		return err
	}

	res, err := cls.ClassifyAndValidate(context.Background(), req.Description, req.Supplier)
	if err != nil {
		var invalid *classify.InvalidResponseError
		if errors.As(err, &invalid) {
			fmt.Fprintf(os.Stderr, "Invalid model response: %s\nRaw response:\n%s\n", invalid.Detail, invalid.Raw)
			return errors.New("classification failed")
		}
		return fmt.Errorf("classification failed: %w", err)
	}

	cls.Session().RecordResult(req.Description, req.Supplier, res)
	printResult(res)

	if asJSON {
		data, err := json.MarshalIndent(res.Classification, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding classification: %w", err)
		}
		fmt.Println(string(data))
	}

	if wantFeedback {
		out, _ := cmd.Flags().GetString("feedback-out")
		if err := captureFeedback(cls, req, res, out); err != nil {
			return err
		}
	}
	return nil
}

func printResult(res *classify.Result) {
	l1, l2, l3 := res.Classification.Levels()
	fmt.Printf("L1: %s\nL2: %s\nL3: %s\n", orDash(l1), orDash(l2), orDash(l3))
	fmt.Printf("Confidence: %s\n", res.ConfidenceLabel)
	fmt.Println(res.Outcome.Message)
	if res.MatchQualityNote != "" {
		fmt.Println(res.MatchQualityNote)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "source: %s\n", res.Source)
		if res.Raw != "" {
			fmt.Fprintf(os.Stderr, "raw response: %s\n", res.Raw)
		}
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// captureFeedback walks the taxonomy levels with interactive selectors,
// records the correction in the session, and exports the feedback CSV.
func captureFeedback(cls *classify.Classifier, req classify.Request, res *classify.Result, outPath string) error {
	table := cls.Table()

	l1, err := selectLevel("Correct L1", table.L1Values())
	if err != nil {
		return err
	}
	l2, err := selectLevel("Correct L2", table.L2Values(l1))
	if err != nil {
		return err
	}
	l3s := table.L3Values(l1, l2)
	var l3 string
	if len(l3s) > 1 || (len(l3s) == 1 && l3s[0] != "") {
		l3, err = selectLevel("Correct L3", l3s)
		if err != nil {
			return err
		}
	}

	predL1, predL2, predL3 := res.Classification.Levels()
	quality, _ := res.Classification.Level("match_quality")
	cls.Session().AddFeedback(classify.FeedbackItem{
		Description:  req.Description,
		Supplier:     req.Supplier,
		PredL1:       predL1,
		PredL2:       predL2,
		PredL3:       predL3,
		CorrectL1:    l1,
		CorrectL2:    l2,
		CorrectL3:    l3,
		MatchQuality: quality,
		Confidence:   res.Confidence,
	})

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating feedback file: %w", err)
	}
	defer f.Close()
	if err := cls.Session().WriteFeedbackCSV(f); err != nil {
		return fmt.Errorf("writing feedback: %w", err)
	}
	fmt.Printf("Feedback saved to %s\n", outPath)
	return nil
}

func selectLevel(label string, items []string) (string, error) {
	display := make([]string, len(items))
	for i, v := range items {
		if v == "" {
			v = "(none)"
		}
		display[i] = v
	}
	prompt := promptui.Select{Label: label, Items: display}
	i, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%s selection: %w", label, err)
	}
	return items[i], nil
}
