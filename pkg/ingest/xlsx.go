package ingest

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
)

// ErrNoSheet is returned when an XLSX workbook has no sheets.
var ErrNoSheet = errors.New("workbook has no sheets")

// readXLSX converts the first sheet of an XLSX workbook into an array of
// objects, treating the first row as the header.
func readXLSX(r io.Reader) (jsontree.Value, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	return rowsToArray(rows[0], rows[1:]), nil
}
