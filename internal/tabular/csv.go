package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReader streams rows from delimited text. It skips a UTF-8 BOM if
// present, sniffs the delimiter from the header line (French exports use
// semicolons as often as commas), tolerates loose quoting and ragged row
// lengths, and repairs invalid UTF-8 in cell values.
type CSVReader struct {
	cr      *csv.Reader
	headers []string
}

// NewCSVReader reads and validates the header row. It fails only when
// the input yields no parsable header at all; ragged or messy data rows
// are dealt with in Next.
func NewCSVReader(r io.Reader) (*CSVReader, error) {
	br := bufio.NewReader(r)
	if err := skipBOM(br); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	peek, _ := br.Peek(4096)
	cr := csv.NewReader(br)
	cr.Comma = detectDelimiter(peek)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headers, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	for i, h := range headers {
		headers[i] = sanitizeCell(h)
	}

	return &CSVReader{cr: cr, headers: headers}, nil
}

// Headers returns the original header row.
func (r *CSVReader) Headers() []string {
	return r.headers
}

// Next returns the next non-empty data row, or io.EOF.
func (r *CSVReader) Next() (Row, error) {
	for {
		cells, err := r.cr.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if isEmptyRow(cells) {
			continue
		}
		for i, v := range cells {
			cells[i] = sanitizeCell(v)
		}
		return pairRow(r.headers, cells), nil
	}
}

// skipBOM consumes a leading UTF-8 BOM if one is present.
func skipBOM(br *bufio.Reader) error {
	peek, err := br.Peek(len(utf8BOM))
	if err != nil && err != io.EOF {
		return err
	}
	if bytes.HasPrefix(peek, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return err
		}
	}
	return nil
}

// detectDelimiter picks the delimiter by counting candidates outside
// quoted sections of the first line. Comma wins ties.
func detectDelimiter(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}

	var commas, semicolons, tabs int
	inQuotes := false
	for _, b := range line {
		switch b {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semicolons++
			}
		case '\t':
			if !inQuotes {
				tabs++
			}
		}
	}

	switch {
	case semicolons > commas && semicolons > tabs:
		return ';'
	case tabs > commas && tabs > semicolons:
		return '\t'
	default:
		return ','
	}
}

// sanitizeCell repairs invalid UTF-8 sequences. Windows exports routinely
// contain Latin-1 bytes; replacing them beats aborting the file.
func sanitizeCell(s string) string {
	return strings.ToValidUTF8(s, "�")
}
