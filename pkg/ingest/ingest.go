// Package ingest loads documents from different file formats into the
// jsontree value model.
//
// JSON files pass through unchanged. Tabular formats (CSV, XLSX) become an
// array of objects, one object per row, keyed by the header row. Cell values
// are coerced: empty cells become null, cells that read as JSON numbers
// become numbers, and everything else stays a string.
package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsonatlas/jsonatlas/pkg/jsontree"
)

// Format identifies a supported input format.
type Format string

// Supported input formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for file extensions with no loader.
var ErrUnsupportedFormat = fmt.Errorf("unsupported input format")

// DetectFormat maps a file path to its format by extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Read loads a document in the given format from a reader.
func Read(r io.Reader, format Format) (jsontree.Value, error) {
	switch format {
	case FormatJSON:
		return jsontree.Read(r)
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// File loads a document from a file, detecting the format by extension.
func File(path string) (jsontree.Value, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return v, nil
}

// coerceCell converts a tabular cell into a jsontree value.
func coerceCell(cell string) jsontree.Value {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return jsontree.Null{}
	}
	if v, err := jsontree.ParseString(trimmed); err == nil && v.Kind() == jsontree.KindNumber {
		return v
	}
	return jsontree.String(cell)
}

// rowsToArray converts header + data rows into an array of objects.
// Short rows are padded with nulls so every object has all header keys.
func rowsToArray(header []string, rows [][]string) jsontree.Value {
	out := make(jsontree.Array, 0, len(rows))
	for _, row := range rows {
		obj := make(jsontree.Object, 0, len(header))
		for i, key := range header {
			var v jsontree.Value = jsontree.Null{}
			if i < len(row) {
				v = coerceCell(row[i])
			}
			obj = append(obj, jsontree.Member{Key: key, Value: v})
		}
		out = append(out, obj)
	}
	return out
}
