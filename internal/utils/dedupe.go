package utils

import "strings"

// SeenFilter drops repeated values while preserving first-occurrence order.
type SeenFilter struct {
	seen map[string]bool
}

// NewSeenFilter creates an empty filter instance.
func NewSeenFilter() *SeenFilter {
	return &SeenFilter{seen: make(map[string]bool)}
}

// ShouldInclude checks if a value should be kept (not seen before).
// Comparison is case-insensitive.
func (f *SeenFilter) ShouldInclude(value string) bool {
	lower := strings.ToLower(value)
	if f.seen[lower] {
		return false
	}
	f.seen[lower] = true
	return true
}
