package classify

import (
	"fmt"
	"strconv"
	"strings"
)

// Classification is a parsed model reply. Keys arrive with whatever casing
// the model chose ("L1", "l1", "L1 "), so all lookups go through Field.
type Classification map[string]any

// Field returns the value stored under name, matching keys after trimming
// and lower-casing. When duplicate keys differ only in casing, the
// lexicographically smallest original key wins; this keeps lookups
// deterministic even though map iteration order is not.
func (c Classification) Field(name string) (any, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	var match string
	found := false
	for k := range c {
		if strings.ToLower(strings.TrimSpace(k)) != want {
			continue
		}
		if !found || k < match {
			match = k
			found = true
		}
	}
	if !found {
		return nil, false
	}
	return c[match], true
}

// Level returns the string form of the named field. ok is false when the key
// is absent or its value is JSON null.
func (c Classification) Level(name string) (string, bool) {
	v, ok := c.Field(name)
	if !ok || v == nil {
		return "", false
	}
	return stringify(v), true
}

// Levels returns the L1/L2/L3 values; absent or null levels come back as
// empty strings.
func (c Classification) Levels() (l1, l2, l3 string) {
	l1, _ = c.Level("L1")
	l2, _ = c.Level("L2")
	l3, _ = c.Level("L3")
	return l1, l2, l3
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
