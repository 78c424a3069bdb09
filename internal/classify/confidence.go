package classify

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ConfidenceValue reads the optional confidence field. Values that fail
// numeric coercion or fall outside [0,1] are treated as absent, never
// clamped.
func ConfidenceValue(c Classification) *float64 {
	v, ok := c.Field("confidence")
	if !ok || v == nil {
		return nil
	}

	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if f < 0 || f > 1 {
		return nil
	}
	return &f
}

// ConfidenceLabel renders a confidence value for display. Bands have
// inclusive lower bounds: 0.8 exactly is High, 0.5 exactly is Medium.
func ConfidenceLabel(v *float64) string {
	if v == nil {
		return "-"
	}
	switch {
	case *v >= 0.8:
		return fmt.Sprintf("High (%.2f)", *v)
	case *v >= 0.5:
		return fmt.Sprintf("Medium (%.2f)", *v)
	default:
		return fmt.Sprintf("Low (%.2f)", *v)
	}
}

// MatchQualityNote maps the optional match_quality tag to an advisory
// message. Unrecognized non-empty values produce no note.
func MatchQualityNote(c Classification) string {
	v, ok := c.Field("match_quality")
	if !ok || v == nil {
		return ""
	}
	switch strings.ToLower(strings.TrimSpace(stringify(v))) {
	case "exact":
		return "Exact taxonomy match."
	case "closest":
		return "Closest taxonomy match selected (not exact)."
	case "not_sure":
		return "Model could not find a reasonable match."
	}
	return ""
}
