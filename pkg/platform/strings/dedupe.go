// Package strings provides string-slice helpers for request normalization.
package strings

import (
	"sort"
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  name ", "appIcon", "name", "", "  "})
//	// Returns: []string{"name", "appIcon"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SplitCSV splits comma separated query values ("name,appIcon") across every
// occurrence of a repeated parameter and normalizes them with DedupeAndTrim.
func SplitCSV(values []string) []string {
	var parts []string
	for _, v := range values {
		parts = append(parts, strings.Split(v, ",")...)
	}
	return DedupeAndTrim(parts)
}

// SortedUnion returns the sorted, de-duplicated union of the given sets.
// The result is stable for a given input and is used to build cache signatures.
func SortedUnion(sets ...[]string) []string {
	var all []string
	for _, s := range sets {
		all = append(all, s...)
	}
	out := DedupeAndTrim(all)
	sort.Strings(out)
	return out
}
