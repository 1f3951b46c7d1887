package sheet

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func tinyPNG(t *testing.T, fill color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture png failed: %v", err)
	}
	return buf.Bytes()
}

func writeWorkbookWithPictures(t *testing.T, rows [][]string, pictures map[string][]byte) string {
	t.Helper()
	file := excelize.NewFile()
	sheetName := file.GetSheetName(0)
	header := []string{"style", "color"}
	for colIdx, name := range header {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := file.SetCellValue(sheetName, cell, name); err != nil {
			t.Fatalf("set header cell failed: %v", err)
		}
	}
	for rowIdx, cells := range rows {
		for colIdx, value := range cells {
			if value == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := file.SetCellValue(sheetName, cell, value); err != nil {
				t.Fatalf("set data cell failed: %v", err)
			}
		}
	}
	for cell, data := range pictures {
		err := file.AddPictureFromBytes(sheetName, cell, &excelize.Picture{
			Extension: ".png",
			File:      data,
		})
		if err != nil {
			t.Fatalf("add picture at %s failed: %v", cell, err)
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

func TestExtractImagesAlignsAnchorToDataRow(t *testing.T) {
	// 容器行号 5（0 起始）对应表格第 6 行，即数据区第 5 行
	rows := [][]string{
		{"11111", "AAA"},
		{"22222", "BBB"},
		{"33333", "CCC"},
		{"44444", "DDD"},
		{"10045", "BLK"},
	}
	path := writeWorkbookWithPictures(t, rows, map[string][]byte{
		"D6": tinyPNG(t, color.RGBA{R: 255, A: 255}),
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatalf("open workbook failed: %v", err)
	}
	defer wb.Close()

	outDir := t.TempDir()
	result, err := wb.ExtractImages(outDir, 0)
	if err != nil {
		t.Fatalf("extract images failed: %v", err)
	}
	if result.Extracted != 1 {
		t.Fatalf("expected one extracted image, got %d (skipped=%d)", result.Extracted, result.Skipped)
	}
	if _, err := os.Stat(filepath.Join(outDir, "010045_BLK.jpg")); err != nil {
		t.Fatalf("expected image named from anchored row, stat failed: %v", err)
	}
	for _, other := range []string{"011111_AAA.jpg", "022222_BBB.jpg"} {
		if _, err := os.Stat(filepath.Join(outDir, other)); !os.IsNotExist(err) {
			t.Fatalf("image %s should not exist", other)
		}
	}
}

func TestExtractImagesSkipsOutOfRangeAndBlankRows(t *testing.T) {
	rows := [][]string{
		{"10045", "BLK"},
		{"", ""},
	}
	path := writeWorkbookWithPictures(t, rows, map[string][]byte{
		// 锚在表头行与空白数据行
		"D1": tinyPNG(t, color.RGBA{G: 255, A: 255}),
		"D3": tinyPNG(t, color.RGBA{B: 255, A: 255}),
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatalf("open workbook failed: %v", err)
	}
	defer wb.Close()

	result, err := wb.ExtractImages(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("extract images failed: %v", err)
	}
	if result.Extracted != 0 {
		t.Fatalf("expected no extracted images, got %d", result.Extracted)
	}
	if result.Skipped != 2 {
		t.Fatalf("expected two skipped images, got %d", result.Skipped)
	}
}

func TestExtractImagesCountsFilenameCollisions(t *testing.T) {
	rows := [][]string{
		{"10045", "BLK"},
		{"10045", "BLK"},
	}
	path := writeWorkbookWithPictures(t, rows, map[string][]byte{
		"D2": tinyPNG(t, color.RGBA{R: 255, A: 255}),
		"D3": tinyPNG(t, color.RGBA{G: 255, A: 255}),
	})

	wb, err := Open(path)
	if err != nil {
		t.Fatalf("open workbook failed: %v", err)
	}
	defer wb.Close()

	outDir := t.TempDir()
	result, err := wb.ExtractImages(outDir, 0)
	if err != nil {
		t.Fatalf("extract images failed: %v", err)
	}
	if result.Extracted != 2 {
		t.Fatalf("expected both images extracted, got %d", result.Extracted)
	}
	if result.Collisions != 1 {
		t.Fatalf("expected one filename collision, got %d", result.Collisions)
	}
	if len(result.Files) != 1 || result.Files[0] != "010045_BLK.jpg" {
		t.Fatalf("unexpected written files: %v", result.Files)
	}
}
