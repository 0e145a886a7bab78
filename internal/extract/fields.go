package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// An address shorter than this after trimming is not plausible.
const minAddressLen = 5

var (
	// Order numbers look like "KAUT-001410" or "МС-12345": 2-5 uppercase
	// Latin or Cyrillic letters, a dash, 5-7 digits.
	orderNumberRe = regexp.MustCompile(`[A-ZА-ЯЁ]{2,5}-[0-9]{5,7}`)

	dateRe  = regexp.MustCompile(`[0-9]{1,2}[./][0-9]{1,2}[./][0-9]{2,4}`)
	parenRe = regexp.MustCompile(`\([^)]*\)`)

	// "от 02.10.2025 17:13:20, <address>" — date with a time component.
	addrAfterDateTimeRe = regexp.MustCompile(`(?i)(?:от|from)\s+[0-9]{1,2}\.[0-9]{1,2}\.[0-9]{2,4}\s+[0-9]{1,2}:[0-9]{2}(?::[0-9]{2})?\s*,\s*(.+)`)
	// Same marker without a strict time component.
	addrAfterDateRe = regexp.MustCompile(`(?i)(?:от|from)\s+[0-9]{1,2}\.[0-9]{1,2}\.[0-9]{2,4}[^,]*,\s*(.+)`)

	// Candidate consisting only of digits, punctuation and spaces is not an
	// address (phone numbers, stray amounts after a comma).
	nonAddressRe = regexp.MustCompile(`^[0-9\s[:punct:]]*$`)
)

// OrderNumber returns the first order-number match in text, or "" when there
// is none. First occurrence wins; no validation beyond the pattern.
func OrderNumber(text string) string {
	return orderNumberRe.FindString(text)
}

// Address recovers an address from loosely formatted order text. Three
// patterns are tried in order; the first yielding a plausible remainder
// wins. Returns "" when nothing matches — such rows become problematic.
func Address(text string) string {
	for _, re := range []*regexp.Regexp{addrAfterDateTimeRe, addrAfterDateRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if cand := strings.TrimSpace(m[1]); utf8.RuneCountInString(cand) > minAddressLen {
				return cand
			}
		}
	}

	// Fallback: rows that carry an order number usually put the address
	// after the first comma.
	if orderNumberRe.MatchString(text) {
		if _, rest, ok := strings.Cut(text, ","); ok {
			cand := strings.TrimSpace(rest)
			if utf8.RuneCountInString(cand) > minAddressLen && !nonAddressRe.MatchString(cand) {
				return cand
			}
		}
	}
	return ""
}
