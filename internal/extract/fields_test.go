package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderNumber(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"latin letters", "Order client KAUT-001410 from 02.10.2025, MO", "KAUT-001410"},
		{"cyrillic letters", "Заказ МСК-12345, г. Москва", "МСК-12345"},
		{"first occurrence wins", "KAUT-001410 и KAUT-001411", "KAUT-001410"},
		{"embedded in text", "повтор по заявке БТ-0099001 от вчера", "БТ-0099001"},
		{"no match", "ремонт по договору", ""},
		{"too few digits", "AB-1234", ""},
		{"too few letters", "A-123456", ""},
		{"lowercase not matched", "kaut-001410", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OrderNumber(tt.text))
		})
	}
}

func TestAddress(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			"date and time marker",
			"Order client KAUT-001410 from 02.10.2025 17:13:20, MO, Dmitrovsky district, village X",
			"MO, Dmitrovsky district, village X",
		},
		{
			"russian marker",
			"Заказ клиент КАУТ-0014107 от 02.10.2025 17:13:20, г. Москва, ул. Ленина 5",
			"г. Москва, ул. Ленина 5",
		},
		{
			"date without time",
			"Заказ МСК-12345 от 02.10.2025 г., Московская область, Дмитров",
			"Московская область, Дмитров",
		},
		{
			"fallback after first comma",
			"KAUT-001410, ул. Садовая 10, кв. 3",
			"ул. Садовая 10, кв. 3",
		},
		{
			"fallback rejects numeric remainder",
			"KAUT-001410, 123-456-78",
			"",
		},
		{
			"no order number no marker",
			"ремонт кондиционера, ул. Садовая 10",
			"",
		},
		{
			"remainder too short",
			"Заказ МСК-12345 от 02.10.2025 17:13, Мск",
			"",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Address(tt.text))
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *float64
	}{
		{"integer", "6000", f(6000)},
		{"comma decimal", "6000,50", f(6000.5)},
		{"dot decimal", "6000.50", f(6000.5)},
		{"thousands space", "6 000,50", f(6000.5)},
		{"non-breaking space", "12 500", f(12500)},
		{"padded", "  7000  ", f(7000)},
		{"text", "договор", nil},
		{"mixed", "6000 руб", nil},
		{"empty", "", nil},
		{"whitespace", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.raw)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 0.0001)
		})
	}
}

func f(v float64) *float64 {
	return &v
}
