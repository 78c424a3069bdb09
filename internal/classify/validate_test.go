package classify

import (
	"testing"

	"github.com/procureml/poclass/internal/taxonomy"
)

func TestValidateTaxonomyValid(t *testing.T) {
	table := taxonomy.Load()
	parsed, _ := ParseResponse(`{"L1":"IT","L2":"Hardware","L3":"Laptop"}`)

	outcome := ValidateTaxonomy(parsed, table)
	if outcome.Status != StatusValid {
		t.Fatalf("status = %q, want %q", outcome.Status, StatusValid)
	}
	if outcome.Message != "Classification matches taxonomy." {
		t.Errorf("unexpected message %q", outcome.Message)
	}
	if outcome.NeedsReview() {
		t.Error("valid outcome should not need review")
	}
}

func TestValidateTaxonomyMiss(t *testing.T) {
	table := taxonomy.Load()
	parsed, _ := ParseResponse(`{"L1":"IT","L2":"Hardware","L3":"Server"}`)

	outcome := ValidateTaxonomy(parsed, table)
	if outcome.Status != StatusNotInTaxonomy {
		t.Fatalf("status = %q, want %q", outcome.Status, StatusNotInTaxonomy)
	}
	if !outcome.NeedsReview() {
		t.Error("taxonomy miss should need review")
	}
}

func TestValidateTaxonomyIncomplete(t *testing.T) {
	table := taxonomy.Load()

	// No L2 at all: incomplete regardless of schema validity.
	parsed, _ := ParseResponse(`{"L1":"IT"}`)
	outcome := ValidateTaxonomy(parsed, table)
	if outcome.Status != StatusIncomplete {
		t.Fatalf("status = %q, want %q", outcome.Status, StatusIncomplete)
	}

	// Null L1 counts as missing too.
	parsed, _ = ParseResponse(`{"L1":null,"L2":"Hardware","L3":"Laptop"}`)
	if got := ValidateTaxonomy(parsed, table); got.Status != StatusIncomplete {
		t.Errorf("null L1: status = %q, want %q", got.Status, StatusIncomplete)
	}
}

func TestValidateTaxonomyEmptyL3(t *testing.T) {
	table := taxonomy.Load()

	// Branch without a third level: null and empty L3 both resolve.
	parsed, _ := ParseResponse(`{"L1":"Utilities","L2":"Power","L3":null}`)
	if got := ValidateTaxonomy(parsed, table); got.Status != StatusValid {
		t.Errorf("null L3: status = %q, want %q", got.Status, StatusValid)
	}

	parsed, _ = ParseResponse(`{"L1":"Utilities","L2":"Power","L3":""}`)
	if got := ValidateTaxonomy(parsed, table); got.Status != StatusValid {
		t.Errorf("empty L3: status = %q, want %q", got.Status, StatusValid)
	}

	// Empty L3 does not wildcard into branches that require one.
	parsed, _ = ParseResponse(`{"L1":"IT","L2":"Hardware","L3":""}`)
	if got := ValidateTaxonomy(parsed, table); got.Status != StatusNotInTaxonomy {
		t.Errorf("missing required L3: status = %q, want %q", got.Status, StatusNotInTaxonomy)
	}
}

func TestValidateTaxonomyTrimsValues(t *testing.T) {
	table := taxonomy.Load()
	parsed, _ := ParseResponse(`{"L1":" IT ","L2":"Hardware ","L3":" Laptop"}`)
	if got := ValidateTaxonomy(parsed, table); got.Status != StatusValid {
		t.Errorf("padded values: status = %q, want %q", got.Status, StatusValid)
	}
}
