package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/AndreKortesz/mosgsm-duplicates-service/pkg/errors"

	"github.com/xuri/excelize/v2"
)

// Sheet is the tabular view of one uploaded export: the header row and the
// data rows of the first worksheet. Cells are raw strings; short rows are
// padded implicitly by the consumer treating out-of-range cells as empty.
type Sheet struct {
	Header []string
	Rows   [][]string
}

type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Read parses an xlsx payload into a Sheet. An unreadable payload is the one
// fatal ingestion error: nothing is persisted for it.
func (r *Reader) Read(ctx context.Context, data []byte) (*Sheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidFileFormat, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.ErrInvalidFileFormat
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.ErrEmptySheet
	}

	return &Sheet{
		Header: rows[0],
		Rows:   rows[1:],
	}, nil
}
