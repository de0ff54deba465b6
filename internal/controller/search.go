package controller

import (
	"sort"
	"strings"
)

// Search narrows items to those where any of the extracted fields
// contains query, case-insensitively. An empty query keeps everything.
func Search[T any](items []T, query string, fields func(T) []string) []T {
	if strings.TrimSpace(query) == "" {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}

	needle := strings.ToLower(query)
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// PinnedFirst orders items so pinned ones come first. The sort is
// stable: within each group the original order is preserved.
func PinnedFirst[T any](items []T, pinned func(T) bool) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return pinned(out[i]) && !pinned(out[j])
	})
	return out
}
