package classify

import "strings"

// requiredFields are the keys every model reply must carry. Order matters
// for the missing-field message.
var requiredFields = []string{"L1", "L2", "L3"}

// ValidateSchema checks that the required level keys are present. Presence is
// what counts: an empty or null L3 value passes, a missing L3 key does not.
func ValidateSchema(c Classification) (bool, string) {
	var missing []string
	for _, f := range requiredFields {
		if _, ok := c.Field(f); !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return false, "Missing fields: " + strings.Join(missing, ", ")
	}
	return true, "OK"
}
