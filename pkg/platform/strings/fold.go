// Package strings holds helpers for user-supplied string lists.
package strings

import "strings"

// DedupeFold trims, lowercases and deduplicates values in first-seen order,
// dropping blanks. An empty input is returned unchanged.
func DedupeFold(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		key := strings.ToLower(strings.TrimSpace(v))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
