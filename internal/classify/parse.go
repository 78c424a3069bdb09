package classify

import "encoding/json"

// ParseResponse decodes a raw model reply into a Classification. Decoding is
// strict: anything that is not a JSON object fails as a whole. Malformed
// output is never repaired, only flagged so the orchestrator can retry.
func ParseResponse(raw string) (Classification, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, false
	}
	if m == nil {
		// The literal "null" decodes without error.
		return nil, false
	}
	return Classification(m), true
}
