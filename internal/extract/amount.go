package extract

import (
	"strconv"
	"strings"
)

var amountCleaner = strings.NewReplacer(" ", "", " ", "", ",", ".")

// ParseAmount converts a raw cell value to a number. Spaces (thousands
// separators, non-breaking included) are stripped and a comma decimal
// separator becomes a period. A nil return is the only failure channel —
// unparsable cells mean "no amount", never an error.
func ParseAmount(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(amountCleaner.Replace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
