package extract

import "strings"

// Normalize builds a comparison key from free text: lower case, whitespace
// runs (tabs and newlines included) collapsed to single spaces, ends trimmed.
// Original-case text is always kept for display; this form is only for
// matching.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
