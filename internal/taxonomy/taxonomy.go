package taxonomy

import (
	"sort"
	"strings"
)

// Entry is a single valid category triple. L3 may be empty, meaning the
// branch has no third level.
type Entry struct {
	L1 string `json:"l1"`
	L2 string `json:"l2"`
	L3 string `json:"l3"`
}

// Key returns the composite membership key for the entry.
func (e Entry) Key() string {
	return Key(e.L1, e.L2, e.L3)
}

// Key builds the composite membership key for a triple. Fields are trimmed;
// an empty L3 stays empty and only matches entries without a third level.
func Key(l1, l2, l3 string) string {
	return strings.TrimSpace(l1) + "|" + strings.TrimSpace(l2) + "|" + strings.TrimSpace(l3)
}

// Table is the compiled-in category taxonomy. It is immutable after Load.
type Table struct {
	rows []Entry
	keys map[string]struct{}
}

// Load builds the Table from the static entry list. Called once per process.
func Load() *Table {
	t := &Table{
		rows: entries,
		keys: make(map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		t.keys[e.Key()] = struct{}{}
	}
	return t
}

// Contains reports whether the trimmed (l1, l2, l3) triple is a valid
// taxonomy entry.
func (t *Table) Contains(l1, l2, l3 string) bool {
	_, ok := t.keys[Key(l1, l2, l3)]
	return ok
}

// Rows returns the taxonomy entries in their defined order.
func (t *Table) Rows() []Entry {
	out := make([]Entry, len(t.rows))
	copy(out, t.rows)
	return out
}

// Search returns entries where any level contains the query,
// case-insensitively. An empty query returns all rows.
func (t *Table) Search(query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return t.Rows()
	}
	var out []Entry
	for _, e := range t.rows {
		if strings.Contains(strings.ToLower(e.L1), q) ||
			strings.Contains(strings.ToLower(e.L2), q) ||
			strings.Contains(strings.ToLower(e.L3), q) {
			out = append(out, e)
		}
	}
	return out
}

// L1Values returns the distinct L1 categories, sorted.
func (t *Table) L1Values() []string {
	return t.distinct(func(e Entry) (string, bool) {
		return e.L1, true
	})
}

// L2Values returns the distinct L2 categories under the given L1, sorted.
func (t *Table) L2Values(l1 string) []string {
	return t.distinct(func(e Entry) (string, bool) {
		return e.L2, e.L1 == l1
	})
}

// L3Values returns the distinct L3 categories under the given L1/L2 pair,
// sorted. The empty string appears when the branch has no third level.
func (t *Table) L3Values(l1, l2 string) []string {
	return t.distinct(func(e Entry) (string, bool) {
		return e.L3, e.L1 == l1 && e.L2 == l2
	})
}

func (t *Table) distinct(pick func(Entry) (string, bool)) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range t.rows {
		v, ok := pick(e)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
