package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// InputRow is one parsed CSV row. Gold labels are only populated for
// evaluation inputs.
type InputRow struct {
	Description string
	Supplier    string
	GoldL1      string
	GoldL2      string
	GoldL3      string
}

// ReadRows parses a header-keyed CSV. Headers are matched case-insensitively
// after trimming; unknown columns are ignored and missing columns read as
// empty. Bulk inputs need `description` (and optionally `supplier`);
// evaluation inputs additionally carry `L1`, `L2`, `L3`.
func ReadRows(r io.Reader) ([]InputRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV input")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["description"]; !ok {
		return nil, fmt.Errorf("CSV input is missing a description column")
	}

	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []InputRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		rows = append(rows, InputRow{
			Description: field(rec, "description"),
			Supplier:    field(rec, "supplier"),
			GoldL1:      field(rec, "l1"),
			GoldL2:      field(rec, "l2"),
			GoldL3:      field(rec, "l3"),
		})
	}
	return rows, nil
}
