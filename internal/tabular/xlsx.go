package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXReader yields rows from the first sheet of a spreadsheet. The
// whole sheet is decoded up front; spreadsheet exports in this system
// are bounded by the upload size cap, not by row count.
type XLSXReader struct {
	headers []string
	rows    [][]string
	pos     int
}

// NewXLSXReader decodes the first sheet and extracts its header row.
func NewXLSXReader(r io.Reader) (*XLSXReader, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = sanitizeCell(h)
	}

	return &XLSXReader{headers: headers, rows: rows[1:]}, nil
}

// Headers returns the original header row.
func (r *XLSXReader) Headers() []string {
	return r.headers
}

// Next returns the next non-empty data row, or io.EOF.
func (r *XLSXReader) Next() (Row, error) {
	for r.pos < len(r.rows) {
		cells := r.rows[r.pos]
		r.pos++
		if isEmptyRow(cells) {
			continue
		}
		for i, v := range cells {
			cells[i] = sanitizeCell(v)
		}
		return pairRow(r.headers, cells), nil
	}
	return nil, io.EOF
}
