package locations

import (
	"strings"
)

// MaxSuggestions caps the number of autocomplete candidates.
const MaxSuggestions = 8

// Suggestions returns up to MaxSuggestions location names starting with query,
// ignoring case. Matching cities come first, then matching states, each in
// reference order. Names present in both lists may appear twice.
func Suggestions(query string) []string {
	return suggestFrom(query, Cities, States)
}

func suggestFrom(query string, cities, states []string) []string {
	out := []string{}
	if strings.TrimSpace(query) == "" {
		return out
	}

	prefix := strings.ToLower(query)
	for _, set := range [][]string{cities, states} {
		for _, name := range set {
			if len(out) == MaxSuggestions {
				return out
			}
			if strings.HasPrefix(strings.ToLower(name), prefix) {
				out = append(out, name)
			}
		}
	}
	return out
}
