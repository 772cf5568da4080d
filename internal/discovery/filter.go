package discovery

import (
	"path/filepath"
	"strings"

	"pypar/internal/domain"
)

// FilterByName keeps the items whose full name matches the pattern.
// Supports wildcard patterns like "TestLogin.*" or "*timeout*"; a pattern
// without wildcards is a substring match. An empty pattern keeps everything.
func FilterByName(items []domain.TestItem, pattern string) []domain.TestItem {
	if pattern == "" {
		return items
	}

	var filtered []domain.TestItem
	for _, item := range items {
		if matchName(item.FullName(), pattern) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func matchName(name, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}

	if ok, err := filepath.Match(pattern, name); err == nil && ok {
		return true
	}

	// Looser fallback for patterns like "*Payment*": every non-wildcard
	// segment must appear somewhere in the name.
	parts := strings.Split(pattern, "*")
	matchedAny := false
	for _, part := range parts {
		if part == "" {
			continue
		}
		if !strings.Contains(name, part) {
			return false
		}
		matchedAny = true
	}
	return matchedAny
}
