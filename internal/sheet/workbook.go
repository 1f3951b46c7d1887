package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// 必需列与可选列名称
const (
	columnStyle    = "style"
	columnColor    = "color"
	columnDivision = "division"
	columnOutsole  = "outsole"
	columnGender   = "gender"
	columnImage    = "image"
	columnImageURL = "image_url"
)

const defaultFieldValue = "N/A"

// Workbook 一份打开的快照表格，持有规范化后的数据行与分组
type Workbook struct {
	file      *excelize.File
	sheetName string
	rows      []Row
	groups    []*StyleGroup
}

// Open 打开并解析快照表格文件
func Open(path string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook failed: %w", err)
	}
	wb := &Workbook{
		file:      file,
		sheetName: file.GetSheetName(0),
	}
	if err := wb.parse(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return wb, nil
}

// Close 释放底层文件句柄
func (w *Workbook) Close() error {
	if w.file == nil {
		return nil
	}
	return w.file.Close()
}

// Rows 返回全部规范化数据行，顺序与表格一致
func (w *Workbook) Rows() []Row {
	return w.rows
}

// Groups 返回按款式基码分组的结果，按首次出现顺序
func (w *Workbook) Groups() []*StyleGroup {
	return w.groups
}

// RowAt 按数据区行号取行，行号 0 对应表头之后的第一行
func (w *Workbook) RowAt(index int) (Row, bool) {
	if index < 0 || index >= len(w.rows) {
		return Row{}, false
	}
	return w.rows[index], true
}

// ActiveStyles 返回表格内全部补零款式基码的集合，用于季末下架比对
func (w *Workbook) ActiveStyles() map[string]struct{} {
	active := make(map[string]struct{}, len(w.groups))
	for _, group := range w.groups {
		active[group.PaddedStyle] = struct{}{}
	}
	return active
}

func (w *Workbook) parse() error {
	raw, err := w.file.GetRows(w.sheetName)
	if err != nil {
		return fmt.Errorf("read sheet rows failed: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("sheet %q is empty", w.sheetName)
	}

	header := make(map[string]int, len(raw[0]))
	for idx, name := range raw[0] {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, exists := header[normalized]; !exists {
			header[normalized] = idx
		}
	}
	for _, required := range []string{columnStyle, columnColor} {
		if _, ok := header[required]; !ok {
			return fmt.Errorf("required column %q not found, available columns: %v", required, headerNames(header))
		}
	}

	// 空白行也要保留，图片锚点按位置对齐数据行
	for dataIndex, cells := range raw[1:] {
		rawStyle := cellValue(cells, header, columnStyle)
		rawColor := cellValue(cells, header, columnColor)
		row := NormalizeRow(dataIndex, rawStyle, rawColor)
		row.Division = cellValueDefault(cells, header, columnDivision)
		row.Outsole = cellValueDefault(cells, header, columnOutsole)
		row.Gender = cellValueDefault(cells, header, columnGender)
		row.ImageURL = cellValue(cells, header, columnImage)
		if row.ImageURL == "" {
			row.ImageURL = cellValue(cells, header, columnImageURL)
		}
		w.rows = append(w.rows, row)
	}

	w.groups = GroupRows(w.rows)
	return nil
}

func cellValue(cells []string, header map[string]int, column string) string {
	idx, ok := header[column]
	if !ok || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func cellValueDefault(cells []string, header map[string]int, column string) string {
	value := cellValue(cells, header, column)
	if value == "" {
		return defaultFieldValue
	}
	return value
}

func headerNames(header map[string]int) []string {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	return names
}
