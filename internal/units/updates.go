package units

import (
	"fmt"

	"github.com/lib/pq"
)

// buildUnitUpdates converts a raw JSON object into a typed column map,
// rejecting fields outside the allow-list and values of the wrong shape.
func buildUnitUpdates(raw map[string]any, allowed map[string]bool) (map[string]any, error) {
	updates := make(map[string]any, len(raw))
	for field, value := range raw {
		if !allowed[field] {
			return nil, fmt.Errorf("field %q is not updatable", field)
		}
		switch field {
		case "tenant_names":
			names, err := toStringArray(value)
			if err != nil {
				return nil, fmt.Errorf("tenant_names: %v", err)
			}
			updates[field] = names
		case "rent":
			n, ok := value.(float64)
			if !ok || n < 0 {
				return nil, fmt.Errorf("rent must be a non-negative number")
			}
			updates[field] = n
		default: // counters
			n, ok := value.(float64)
			if !ok || n < 0 || n != float64(int(n)) {
				return nil, fmt.Errorf("%s must be a non-negative integer", field)
			}
			updates[field] = int(n)
		}
	}
	return updates, nil
}

func toStringArray(value any) (pq.StringArray, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array of strings")
	}
	names := make(pq.StringArray, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected an array of strings")
		}
		names = append(names, s)
	}
	return names, nil
}
