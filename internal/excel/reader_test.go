package excel

import (
	"context"
	"testing"

	apperrors "github.com/AndreKortesz/mosgsm-duplicates-service/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReaderRead(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Монтажник", "Заказ и комментарии", "Итог"},
		{"Иванов Петр", "Заказ KAUT-001410 от 02.10.2025 17:13:20, ул. Садовая 10", "6000"},
		{"", "Итого", "6000"},
	})

	sheet, err := NewReader().Read(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Монтажник", "Заказ и комментарии", "Итог"}, sheet.Header)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Иванов Петр", sheet.Rows[0][0])
	assert.Equal(t, "6000", sheet.Rows[0][2])
}

func TestReaderRejectsGarbage(t *testing.T) {
	_, err := NewReader().Read(context.Background(), []byte("definitely not a workbook"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileFormat)
}

func TestReaderRejectsEmptyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, readErr := NewReader().Read(context.Background(), buf.Bytes())
	assert.ErrorIs(t, readErr, apperrors.ErrEmptySheet)
}

func TestReaderHeaderOnlySheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Монтажник", "Заказ и комментарии", "Итог"},
	})

	sheet, err := NewReader().Read(context.Background(), data)
	require.NoError(t, err)
	assert.Len(t, sheet.Header, 3)
	assert.Empty(t, sheet.Rows)
}
