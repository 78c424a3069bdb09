package classify

import (
	"fmt"
	"strings"

	"github.com/procureml/poclass/internal/llm"
	"github.com/procureml/poclass/internal/taxonomy"
)

const systemPromptHeader = `You are a procurement category classifier. Classify purchase order descriptions into the fixed three-level taxonomy below. Pick the single best matching row.

Taxonomy (L1 | L2 | L3):
`

const systemPromptRules = `
Respond with a single JSON object and nothing else, using exactly these keys:

{
  "L1": "level 1 category from the taxonomy",
  "L2": "level 2 category from the taxonomy",
  "L3": "level 3 category from the taxonomy, or null if the row has none",
  "confidence": 0.0,
  "match_quality": "exact|closest|not_sure"
}

confidence is a number between 0 and 1. Use match_quality "exact" when the description clearly maps to a taxonomy row, "closest" when you picked the nearest row, and "not_sure" when no row is a reasonable fit. Do not invent categories outside the taxonomy.`

// SystemPrompt renders the classification instruction with the full taxonomy
// table embedded.
func SystemPrompt(table *taxonomy.Table) string {
	var b strings.Builder
	b.WriteString(systemPromptHeader)
	for _, e := range table.Rows() {
		b.WriteString(e.L1)
		b.WriteString(" | ")
		b.WriteString(e.L2)
		if e.L3 != "" {
			b.WriteString(" | ")
			b.WriteString(e.L3)
		}
		b.WriteString("\n")
	}
	b.WriteString(systemPromptRules)
	return b.String()
}

// BuildMessages assembles the chat messages for one classification request.
// An empty supplier is sent as "Not provided".
func BuildMessages(table *taxonomy.Table, description, supplier string) []llm.Message {
	if strings.TrimSpace(supplier) == "" {
		supplier = "Not provided"
	}
	user := fmt.Sprintf("PO Description:\n%s\n\nSupplier:\n%s", description, supplier)
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt(table)},
		{Role: llm.RoleUser, Content: user},
	}
}
