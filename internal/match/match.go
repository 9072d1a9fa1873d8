// Package match implements the wildcard/substring text matching primitive
// used by lead source and detection rule patterns.
package match

import (
	"regexp"
	"strings"
)

// Matches reports whether text matches pattern. Patterns containing '*' are
// compiled to a case-insensitive regex with each '*' replaced by '.*' and no
// anchoring, so they behave like substring matches with gaps. All other
// patterns are case-insensitive substring containment checks.
//
// Known limitation: the wildcard branch does not escape regex
// metacharacters, so a literal '.' in a wildcard domain pattern matches any
// character. Configured patterns have always relied on this behavior, so it
// is preserved rather than silently fixed.
func Matches(text, pattern string) bool {
	if pattern == "" {
		return false
	}

	if strings.Contains(pattern, "*") {
		re, err := regexp.Compile("(?i)" + strings.ReplaceAll(pattern, "*", ".*"))
		if err != nil {
			// A malformed wildcard pattern matches nothing.
			return false
		}
		return re.MatchString(text)
	}

	return strings.Contains(strings.ToLower(text), strings.ToLower(pattern))
}

// MatchesAny reports whether any pattern in patterns matches text.
func MatchesAny(text string, patterns []string) bool {
	for _, p := range patterns {
		if Matches(text, p) {
			return true
		}
	}
	return false
}
