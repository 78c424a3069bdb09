package classify

import "github.com/procureml/poclass/internal/taxonomy"

// Status describes how a classification relates to the taxonomy table.
type Status string

const (
	StatusValid         Status = "valid"
	StatusNotInTaxonomy Status = "not_in_taxonomy"
	StatusIncomplete    Status = "incomplete"
)

// Outcome pairs a taxonomy validation status with its display message.
type Outcome struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// NeedsReview reports whether the classification did not cleanly resolve to
// a known taxonomy entry.
func (o Outcome) NeedsReview() bool {
	return o.Status != StatusValid
}

const (
	msgValid         = "Classification matches taxonomy."
	msgNotInTaxonomy = "Classification not in taxonomy - needs review."
	msgIncomplete    = "Classification missing L1/L2 fields - needs review."
)

// ValidateTaxonomy checks the classification's L1/L2/L3 triple against the
// taxonomy table. Missing or null L1/L2 is incomplete regardless of what the
// schema check said; L3 defaults to the empty string.
func ValidateTaxonomy(c Classification, table *taxonomy.Table) Outcome {
	l1, ok1 := c.Level("L1")
	l2, ok2 := c.Level("L2")
	if !ok1 || !ok2 {
		return Outcome{Status: StatusIncomplete, Message: msgIncomplete}
	}
	l3, _ := c.Level("L3")
	if table.Contains(l1, l2, l3) {
		return Outcome{Status: StatusValid, Message: msgValid}
	}
	return Outcome{Status: StatusNotInTaxonomy, Message: msgNotInTaxonomy}
}
