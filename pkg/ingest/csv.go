package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
)

// ErrNoHeader is returned when a tabular input has no header row.
var ErrNoHeader = errors.New("missing header row")

// readCSV converts CSV input into an array of objects.
// The first record is the header; each following record becomes one object.
func readCSV(r io.Reader) (jsontree.Value, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are padded with nulls

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rows = append(rows, record)
	}

	return rowsToArray(header, rows), nil
}
