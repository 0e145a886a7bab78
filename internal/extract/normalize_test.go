package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "MO, Dmitrovsky District", "mo, dmitrovsky district"},
		{"collapses spaces", "мо,   дмитровский   район", "мо, дмитровский район"},
		{"collapses tabs and newlines", "мо,\tдмитровский\nрайон", "мо, дмитровский район"},
		{"trims", "  деревня Х  ", "деревня х"},
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"MO,  Dmitrovsky  district, village X",
		"УЛ. ЛЕНИНА,\t5",
		"",
		"already normal",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}
