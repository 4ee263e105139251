package engine

import "strings"

func trimAndUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// foldForSubstringMatch lower-cases and strips whitespace, matching the
// reference's `.lower().replace(" ", "")` normalization used by
// dayHasDivision (spec.md §4.4).
func foldForSubstringMatch(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}
