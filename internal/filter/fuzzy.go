package filter

import "github.com/sahilm/fuzzy"

// Match reports whether every character of query appears case-insensitively
// in haystack in order, not necessarily contiguously. This is subsequence
// containment, not edit distance: "rdfl" matches "ReadFile", "flr" does
// not. An empty query matches anything.
func Match(haystack, query string) bool {
	if query == "" {
		return true
	}
	return len(fuzzy.Find(query, []string{haystack})) > 0
}
