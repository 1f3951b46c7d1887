package service

import (
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/stockbook/internal/constants"
	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/repository"

	"github.com/xuri/excelize/v2"
)

// ExportService 报表导出服务
type ExportService struct {
	items repository.ItemRepository
}

// NewExportService 创建导出服务
func NewExportService(items repository.ItemRepository) *ExportService {
	return &ExportService{items: items}
}

// BuildDroppedItemsWorkbook 生成 dropped 单品清单工作簿
func (s *ExportService) BuildDroppedItemsWorkbook(ctx context.Context) (*bytes.Buffer, error) {
	items, _, err := s.items.List(repository.ItemListFilter{
		Status:  constants.ItemStatusDropped,
		WithRow: true,
	})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := constants.ExportSheetDroppedItems
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	// 表头样式：深色底、白色加粗、细边框
	headerStyleID, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#44546A"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})

	dataStyleID, _ := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "#000000", Style: 1},
			{Type: "top", Color: "#000000", Style: 1},
			{Type: "bottom", Color: "#000000", Style: 1},
			{Type: "right", Color: "#000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Vertical: "center",
		},
	})

	type header struct {
		col   string
		value string
	}
	headers := []header{
		{"A", "Item ID"},
		{"B", "Style"},
		{"C", "Color"},
		{"D", "Division"},
		{"E", "Gender"},
		{"F", "Location"},
		{"G", "Source Files"},
	}

	colMaxWidth := make(map[string]float64)
	for _, h := range headers {
		f.SetCellValue(sheetName, h.col+"1", h.value)
		colMaxWidth[h.col] = float64(len([]rune(h.value)))
	}
	f.SetCellStyle(sheetName, "A1", "G1", headerStyleID)

	for i, item := range items {
		row := strconv.Itoa(i + 2)

		setCell := func(col, value string) {
			f.SetCellValue(sheetName, col+row, value)
			if w := float64(len([]rune(value))); w > colMaxWidth[col] {
				colMaxWidth[col] = w
			}
		}

		setCell("A", item.ID)
		setCell("B", item.Style)
		setCell("C", item.Color)
		setCell("D", item.Division)
		setCell("E", item.Gender)
		setCell("F", locationPath(item.Row))
		setCell("G", strings.Join(item.SourceFiles, ", "))

		f.SetCellStyle(sheetName, "A"+row, "G"+row, dataStyleID)
	}

	for col, maxW := range colMaxWidth {
		width := maxW*1.2 + 4
		if width < 8 {
			width = 8
		}
		f.SetColWidth(sheetName, col, col, width)
	}

	lastRow := len(items) + 1
	f.AutoFilter(sheetName, "A1:G"+strconv.Itoa(lastRow), nil)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	logger.Infow("dropped_items_exported", "count", len(items))
	return buf, nil
}
