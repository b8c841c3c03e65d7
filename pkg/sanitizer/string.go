package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims leading/trailing whitespace and collapses
// internal whitespace runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeLocation(location string) string {
	return TrimAndNormalize(location)
}

func NormalizeTitle(title string) string {
	return TrimAndNormalize(title)
}

// NormalizeSearchTerm lowercases a user-supplied search string so cache
// keys derived from it stay deterministic across equivalent queries.
func NormalizeSearchTerm(term string) string {
	return strings.ToLower(TrimAndNormalize(term))
}
