package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildSheet(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

// ============================================================================
// XLSXReader Tests
// ============================================================================

func TestXLSXReader_ReadsFirstSheet(t *testing.T) {
	data := buildSheet(t, [][]interface{}{
		{"Email", "Nom", "Ville"},
		{"jean@example.com", "Dupont", "Lyon"},
		{"marie@example.com", "Martin", "Paris"},
	})

	r, err := NewXLSXReader(data)
	if err != nil {
		t.Fatalf("NewXLSXReader() error = %v", err)
	}

	if got := r.Headers(); len(got) != 3 || got[0] != "Email" {
		t.Errorf("Headers() = %v", got)
	}

	rows := readAll(t, r)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0][1].Header != "Nom" || rows[0][1].Value != "Dupont" {
		t.Errorf("rows[0][1] = %+v", rows[0][1])
	}
	if rows[1][2].Value != "Paris" {
		t.Errorf("rows[1][2] = %+v", rows[1][2])
	}
}

func TestXLSXReader_SkipsEmptyRows(t *testing.T) {
	data := buildSheet(t, [][]interface{}{
		{"Email", "Nom"},
		{"jean@example.com", "Dupont"},
		{"", ""},
		{"marie@example.com", "Martin"},
	})

	r, err := NewXLSXReader(data)
	if err != nil {
		t.Fatalf("NewXLSXReader() error = %v", err)
	}

	if rows := readAll(t, r); len(rows) != 2 {
		t.Errorf("got %d rows, want 2 (blank row dropped)", len(rows))
	}
}

func TestXLSXReader_ShortRowPadded(t *testing.T) {
	data := buildSheet(t, [][]interface{}{
		{"Email", "Nom", "Ville"},
		{"jean@example.com", "Dupont"},
	})

	r, err := NewXLSXReader(data)
	if err != nil {
		t.Fatalf("NewXLSXReader() error = %v", err)
	}

	rows := readAll(t, r)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if len(rows[0]) != 3 || rows[0][2].Value != "" {
		t.Errorf("row = %+v, want padded to header width", rows[0])
	}
}

func TestXLSXReader_NotASpreadsheet(t *testing.T) {
	if _, err := NewXLSXReader(strings.NewReader("Email,Nom\njean@example.com,Dupont\n")); err == nil {
		t.Error("NewXLSXReader() expected error for non-zip input")
	}
}
