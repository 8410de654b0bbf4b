// Package tabular turns uploaded byte buffers (delimited text or a
// spreadsheet sheet) into an ordered stream of header/value rows.
//
// The readers are deliberately forgiving: exports produced by office
// tooling carry BOMs, stray encodings, inconsistent quoting and
// locale-dependent delimiters. Cell values are passed through verbatim
// apart from UTF-8 repair; all semantic cleaning happens downstream.
package tabular

import (
	"fmt"
	"io"
	"strings"
)

// Format identifies the physical layout of an uploaded file. The upload
// endpoint decides the format (typically from the file extension); the
// readers never sniff content types themselves.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Field is one cell of a row, paired with the original column header it
// appeared under. Header text is kept untouched (casing, accents,
// punctuation) so callers can apply their own normalization.
type Field struct {
	Header string
	Value  string
}

// Row is one data row in original column order.
type Row []Field

// RowReader yields rows lazily. Next returns io.EOF after the last row.
// A RowReader is consumed once and is not restartable.
type RowReader interface {
	Next() (Row, error)
	// Headers returns the original header row.
	Headers() []string
}

// Open constructs a RowReader for the given format.
func Open(r io.Reader, format Format) (RowReader, error) {
	switch format {
	case FormatCSV:
		return NewCSVReader(r)
	case FormatXLSX:
		return NewXLSXReader(r)
	default:
		return nil, fmt.Errorf("unsupported format: %q", format)
	}
}

// pairRow zips a header row with a data row. Missing trailing cells
// become empty values; surplus cells without a header are dropped.
func pairRow(headers []string, cells []string) Row {
	row := make(Row, 0, len(headers))
	for i, h := range headers {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		row = append(row, Field{Header: h, Value: v})
	}
	return row
}

// isEmptyRow reports whether every cell is blank after trimming.
func isEmptyRow(cells []string) bool {
	for _, v := range cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
