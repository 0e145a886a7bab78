package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rows shorter than this with no digits are treated as section headers.
const shortHeaderLen = 40

// Any of these keywords marks a row as real data regardless of the other
// template heuristics. Russian forms first, Latin equivalents for sheets
// exported with translated headers.
var dataKeywords = []string{
	"заказ", "клиент", "монтаж", "диагност", "выезд", "адрес", "сумм",
	"order", "client", "install", "diagnost", "dispatch", "address", "amount",
}

// JoinCells concatenates the non-empty cells of a row into one string for
// whole-row classification.
func JoinCells(cells []string) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		if t := strings.TrimSpace(c); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// IsTemplateRow reports whether a row is template noise (running totals,
// section headers, blank filler) that should be skipped entirely. The source
// sheets mix these with data rows without any structural marker.
func IsTemplateRow(cells []string) bool {
	joined := Normalize(JoinCells(cells))

	// Domain keywords win over everything else.
	for _, kw := range dataKeywords {
		if strings.Contains(joined, kw) {
			return false
		}
	}

	if joined == "" {
		return true
	}
	if strings.HasPrefix(joined, "итого") || strings.HasPrefix(joined, "total") {
		return true
	}
	if !strings.ContainsAny(joined, "0123456789") && utf8.RuneCountInString(joined) < shortHeaderLen {
		return true
	}
	return false
}

// IsWorkerHeader reports whether text plausibly names a person rather than
// describing an order. The sheets insert such banner rows between a
// technician's sections.
func IsWorkerHeader(text string) bool {
	t := strings.TrimSpace(text)
	if t == "" {
		return false
	}
	if orderNumberRe.MatchString(t) || dateRe.MatchString(t) {
		return false
	}
	if strings.ContainsAny(t, `#/\`) {
		return false
	}

	// Parenthetical asides ("(стажер)") do not disqualify a name.
	t = strings.TrimSpace(parenRe.ReplaceAllString(t, " "))

	tokens := strings.Fields(t)
	if len(tokens) < 2 || len(tokens) > 3 {
		return false
	}
	for _, tok := range tokens {
		for _, r := range tok {
			if unicode.IsDigit(r) {
				return false
			}
		}
		first, _ := utf8.DecodeRuneInString(tok)
		if !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}
