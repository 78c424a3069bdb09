package batch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/procureml/poclass/internal/classify"
	"github.com/procureml/poclass/internal/progress"
)

// Bulk row statuses.
const (
	StatusOK                 = "ok"
	StatusNeedsReview        = "needs review"
	StatusMissingDescription = "missing description"
	StatusInvalidResponse    = "invalid response"
)

// BulkRow is one output row of a bulk classification run.
type BulkRow struct {
	Description  string
	Supplier     string
	Status       string
	MatchQuality string
	Confidence   string
	L1           string
	L2           string
	L3           string
}

// RunBulk classifies rows strictly sequentially. Rows with an empty
// description are recorded and skipped; a failure on one row becomes that
// row's status and never aborts the rest of the run.
func RunBulk(ctx context.Context, cls *classify.Classifier, rows []InputRow, rep progress.Reporter) []BulkRow {
	results := make([]BulkRow, 0, len(rows))
	rep.Start(len(rows))
	defer rep.Finish()

	for i, row := range rows {
		results = append(results, classifyBulkRow(ctx, cls, row))
		rep.Update(i+1, fmt.Sprintf("row %d of %d", i+1, len(rows)))
	}
	return results
}

func classifyBulkRow(ctx context.Context, cls *classify.Classifier, row InputRow) BulkRow {
	out := BulkRow{Description: row.Description, Supplier: row.Supplier}

	if row.Description == "" {
		out.Status = StatusMissingDescription
		return out
	}

	res, err := cls.ClassifyAndValidate(ctx, row.Description, row.Supplier)
	if err != nil {
		log.Printf("bulk classification failed: %v", err)
		if errors.Is(err, classify.ErrInvalidResponse) {
			out.Status = StatusInvalidResponse
		} else {
			out.Status = fmt.Sprintf("error: %v", err)
		}
		return out
	}

	out.L1, out.L2, out.L3 = res.Classification.Levels()
	out.MatchQuality, _ = res.Classification.Level("match_quality")
	if res.Confidence != nil {
		out.Confidence = fmt.Sprintf("%.2f", *res.Confidence)
	}
	if res.Outcome.NeedsReview() {
		out.Status = StatusNeedsReview
	} else {
		out.Status = StatusOK
	}
	return out
}

// WriteBulkCSV writes bulk results in the fixed output column order.
func WriteBulkCSV(w io.Writer, rows []BulkRow) error {
	cw := csv.NewWriter(w)
	header := []string{"description", "supplier", "status", "match_quality", "confidence", "l1", "l2", "l3"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing bulk header: %w", err)
	}
	for _, r := range rows {
		rec := []string{r.Description, r.Supplier, r.Status, r.MatchQuality, r.Confidence, r.L1, r.L2, r.L3}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing bulk row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
