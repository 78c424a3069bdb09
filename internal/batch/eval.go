package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"

	"github.com/procureml/poclass/internal/classify"
	"github.com/procureml/poclass/internal/progress"
)

// Evaluation match values.
const (
	MatchYes   = "yes"
	MatchNo    = "no"
	MatchError = "error"
)

// EvalRow is one scored prediction against a gold label.
type EvalRow struct {
	Description string
	Supplier    string
	GoldL1      string
	GoldL2      string
	GoldL3      string
	PredL1      string
	PredL2      string
	PredL3      string
	Match       string
}

// EvalReport aggregates an evaluation run.
type EvalReport struct {
	Rows    []EvalRow `json:"rows"`
	Correct int       `json:"correct"`
	Total   int       `json:"total"`
}

// Accuracy returns correct/total as a percentage, 0 when no rows counted.
func (r *EvalReport) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total) * 100
}

// RunEval scores predictions against gold labels, row by row. Rows with an
// empty description are skipped entirely and never counted. Every counted
// row bypasses the session cache so each prediction is fresh. A row counts
// as correct only on exact string equality of all three levels, with a null
// predicted L3 compared as the empty string.
func RunEval(ctx context.Context, cls *classify.Classifier, rows []InputRow, rep progress.Reporter) *EvalReport {
	report := &EvalReport{}
	rep.Start(len(rows))
	defer rep.Finish()

	for i, row := range rows {
		rep.Update(i+1, fmt.Sprintf("row %d of %d", i+1, len(rows)))
		if row.Description == "" {
			continue
		}
		report.Total++

		out := EvalRow{
			Description: row.Description,
			Supplier:    row.Supplier,
			GoldL1:      row.GoldL1,
			GoldL2:      row.GoldL2,
			GoldL3:      row.GoldL3,
		}

		res, err := cls.ClassifyOnce(ctx, row.Description, row.Supplier)
		if err != nil {
			log.Printf("evaluation row failed: %v", err)
			out.Match = MatchError
			report.Rows = append(report.Rows, out)
			continue
		}

		predL1, ok1 := res.Classification.Level("L1")
		predL2, ok2 := res.Classification.Level("L2")
		predL3, _ := res.Classification.Level("L3")
		out.PredL1 = predL1
		out.PredL2 = predL2
		out.PredL3 = predL3

		if ok1 && ok2 && predL1 == row.GoldL1 && predL2 == row.GoldL2 && predL3 == row.GoldL3 {
			out.Match = MatchYes
			report.Correct++
		} else {
			out.Match = MatchNo
		}
		report.Rows = append(report.Rows, out)
	}
	return report
}

// WriteEvalCSV writes the evaluation rows in the fixed output column order.
func WriteEvalCSV(w io.Writer, report *EvalReport) error {
	cw := csv.NewWriter(w)
	header := []string{
		"description", "supplier",
		"gold_l1", "gold_l2", "gold_l3",
		"pred_l1", "pred_l2", "pred_l3",
		"match",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing evaluation header: %w", err)
	}
	for _, r := range report.Rows {
		rec := []string{
			r.Description, r.Supplier,
			r.GoldL1, r.GoldL2, r.GoldL3,
			r.PredL1, r.PredL2, r.PredL3,
			r.Match,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing evaluation row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
