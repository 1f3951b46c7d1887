package sheet

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/xuri/excelize/v2"

	"github.com/stockbook/internal/logger"
)

// DefaultJPEGQuality 图片重编码默认质量
const DefaultJPEGQuality = 95

// ExtractResult 图片提取统计
type ExtractResult struct {
	Extracted  int      `json:"extracted"`  // 成功落盘数量
	Skipped    int      `json:"skipped"`    // 跳过数量
	Collisions int      `json:"collisions"` // 文件名冲突覆盖次数
	Files      []string `json:"files"`      // 落盘的文件名
}

type anchoredCell struct {
	cell string
	col  int
	row  int // 容器内 0 起始的行号，0 为表头
}

// ExtractImages 把内嵌图片按锚点行对齐到数据行并落盘。
// 文件名为 "{补零款式}_{规范颜色}.jpg"，同名后写覆盖先写，仅计数不报错。
func (w *Workbook) ExtractImages(dir string, quality int) (ExtractResult, error) {
	result := ExtractResult{}
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("create image dir failed: %w", err)
	}

	cells, err := w.file.GetPictureCells(w.sheetName)
	if err != nil {
		return result, fmt.Errorf("enumerate picture cells failed: %w", err)
	}

	anchors := make([]anchoredCell, 0, len(cells))
	for _, cell := range cells {
		col, row, err := excelize.CellNameToCoordinates(cell)
		if err != nil {
			result.Skipped++
			continue
		}
		anchors = append(anchors, anchoredCell{cell: cell, col: col, row: row - 1})
	}
	sort.Slice(anchors, func(i, j int) bool {
		if anchors[i].row != anchors[j].row {
			return anchors[i].row < anchors[j].row
		}
		return anchors[i].col < anchors[j].col
	})

	written := make(map[string]struct{})
	seenRows := make(map[int]struct{})
	for _, anchor := range anchors {
		// 同一行多张图片只取第一张
		if _, done := seenRows[anchor.row]; done {
			continue
		}
		seenRows[anchor.row] = struct{}{}

		// 表头占容器行 0，数据行号要再减一
		row, ok := w.RowAt(anchor.row - 1)
		if !ok {
			result.Skipped++
			continue
		}
		if row.RawStyle == "" || row.Color == "" {
			result.Skipped++
			continue
		}
		if !isDigits(row.BaseStyle) {
			// 款式没有前导数字时无法生成规范文件名
			result.Skipped++
			continue
		}

		filename := fmt.Sprintf("%s.jpg", ItemID(row.PaddedStyle, row.Color))
		if _, exists := written[filename]; exists {
			result.Collisions++
			logger.Warnw("image_filename_collision",
				"filename", filename,
				"anchor_row", anchor.row,
			)
		}

		if err := w.writeImage(anchor.cell, filepath.Join(dir, filename), quality); err != nil {
			logger.Warnw("image_extract_failed",
				"cell", anchor.cell,
				"filename", filename,
				"error", err,
			)
			result.Skipped++
			continue
		}
		if _, exists := written[filename]; !exists {
			written[filename] = struct{}{}
			result.Files = append(result.Files, filename)
		}
		result.Extracted++
	}
	return result, nil
}

func (w *Workbook) writeImage(cell, path string, quality int) error {
	pictures, err := w.file.GetPictures(w.sheetName, cell)
	if err != nil {
		return fmt.Errorf("read picture failed: %w", err)
	}
	if len(pictures) == 0 {
		return fmt.Errorf("no picture data at cell %s", cell)
	}
	img, err := imaging.Decode(bytes.NewReader(pictures[0].File))
	if err != nil {
		return fmt.Errorf("decode picture failed: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image file failed: %w", err)
	}
	defer out.Close()
	// JPEG 编码固定为 RGB 色彩模式
	if err := imaging.Encode(out, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("encode jpeg failed: %w", err)
	}
	return nil
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
