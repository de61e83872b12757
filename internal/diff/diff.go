// Package diff computes which fields an update payload actually changes.
package diff

import "reflect"

// Changed returns the subset of incoming, restricted to the allowed field
// names, whose values differ from existing. A field absent from existing
// counts as changed; fields outside allowed are ignored even when present.
// An empty result means the update is a no-op. The function is pure: it
// never modifies its inputs.
func Changed(existing, incoming map[string]any, allowed []string) map[string]any {
	changed := map[string]any{}
	for _, field := range allowed {
		incomingVal, ok := incoming[field]
		if !ok {
			continue
		}
		existingVal, ok := existing[field]
		if !ok || !equal(existingVal, incomingVal) {
			changed[field] = incomingVal
		}
	}
	return changed
}

// equal compares by value. Numbers compare across Go types so a
// JSON-decoded payload (float64) matches a typed record (int).
func equal(a, b any) bool {
	aNum, aOK := toFloat(a)
	bNum, bOK := toFloat(b)
	if aOK && bOK {
		return aNum == bNum
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
