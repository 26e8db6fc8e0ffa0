// Package ids provides identifier slice utilities.
package ids

import "github.com/google/uuid"

// Dedupe removes duplicate and nil UUIDs from a slice. Order is preserved.
//
// Callers that replace association sets rely on this happening before any
// write is issued, so a rejected batch can never partially apply.
func Dedupe(values []uuid.UUID) []uuid.UUID {
	if len(values) == 0 {
		return values
	}

	seen := make(map[uuid.UUID]struct{}, len(values))
	result := make([]uuid.UUID, 0, len(values))

	for _, v := range values {
		if v == uuid.Nil {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}

	return result
}
