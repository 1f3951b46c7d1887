package sheet

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, header []string, rows [][]string) string {
	t.Helper()
	file := excelize.NewFile()
	sheetName := file.GetSheetName(0)
	for colIdx, name := range header {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err != nil {
			t.Fatalf("build header cell name failed: %v", err)
		}
		if err := file.SetCellValue(sheetName, cell, name); err != nil {
			t.Fatalf("set header cell failed: %v", err)
		}
	}
	for rowIdx, cells := range rows {
		for colIdx, value := range cells {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				t.Fatalf("build data cell name failed: %v", err)
			}
			if err := file.SetCellValue(sheetName, cell, value); err != nil {
				t.Fatalf("set data cell failed: %v", err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "snapshot.xlsx")
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook failed: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close workbook failed: %v", err)
	}
	return path
}

func TestOpenMissingRequiredColumn(t *testing.T) {
	path := writeWorkbook(t, []string{"Style", "Division"}, [][]string{
		{"10045", "Shoes"},
	})
	_, err := Open(path)
	if err == nil {
		t.Fatalf("expected error for missing color column")
	}
	if !strings.Contains(err.Error(), "color") {
		t.Fatalf("expected missing column error to name the column, got: %v", err)
	}
}

func TestOpenNormalizesHeaderCase(t *testing.T) {
	path := writeWorkbook(t, []string{" STYLE ", " Color "}, [][]string{
		{"10045", "BLK"},
	})
	wb, err := Open(path)
	if err != nil {
		t.Fatalf("open workbook failed: %v", err)
	}
	defer wb.Close()
	if len(wb.Rows()) != 1 {
		t.Fatalf("expected one data row, got %d", len(wb.Rows()))
	}
	if wb.Rows()[0].PaddedStyle != "010045" {
		t.Fatalf("unexpected padded style: %s", wb.Rows()[0].PaddedStyle)
	}
}

func TestWidthVariantsShareOneGroup(t *testing.T) {
	path := writeWorkbook(t, []string{"style", "color"}, [][]string{
		{"10045", "BLK"},
		{"10045w", "BLK"},
	})
	wb, err := Open(path)
	if err != nil {
		t.Fatalf("open workbook failed: %v", err)
	}
	defer wb.Close()

	groups := wb.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected one style group, got %d", len(groups))
	}
	if groups[0].PaddedStyle != "010045" {
		t.Fatalf("unexpected padded style: %s", groups[0].PaddedStyle)
	}
	expected := []string{"BLK", "BLK (w)"}
	if !reflect.DeepEqual(groups[0].Colors, expected) {
		t.Fatalf("unexpected colors: got=%v expected=%v", groups[0].Colors, expected)
	}
}

func TestMissingOptionalColumnsDefaultToNA(t *testing.T) {
	path := writeWorkbook(t, []string{"style", "color"}, [][]string{
		{"10045", "BLK"},
	})
	wb, err := Open(path)
	if err != nil {
		t.Fatalf("open workbook failed: %v", err)
	}
	defer wb.Close()

	row := wb.Rows()[0]
	if row.Division != "N/A" || row.Outsole != "N/A" || row.Gender != "N/A" {
		t.Fatalf("expected optional fields to default to N/A, got %+v", row)
	}
}

func TestActiveStylesArePadded(t *testing.T) {
	path := writeWorkbook(t, []string{"style", "color"}, [][]string{
		{"10045", "BLK"},
		{"10045w", "BLK"},
		{"204", "RED"},
	})
	wb, err := Open(path)
	if err != nil {
		t.Fatalf("open workbook failed: %v", err)
	}
	defer wb.Close()

	active := wb.ActiveStyles()
	if len(active) != 2 {
		t.Fatalf("expected two active styles, got %d", len(active))
	}
	for _, style := range []string{"010045", "000204"} {
		if _, ok := active[style]; !ok {
			t.Fatalf("expected active set to contain %s, got %v", style, active)
		}
	}
}
