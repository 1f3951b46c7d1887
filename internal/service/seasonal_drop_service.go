package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/stockbook/internal/constants"
	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/models"
	"github.com/stockbook/internal/repository"
	"github.com/stockbook/internal/sheet"

	"gorm.io/gorm"
)

// SeasonalDropService 季末下架服务：按在售快照把缺席款式标记为 dropped
type SeasonalDropService struct {
	items repository.ItemRepository
}

// NewSeasonalDropService 创建季末下架服务
func NewSeasonalDropService(items repository.ItemRepository) *SeasonalDropService {
	return &SeasonalDropService{items: items}
}

// DroppedItemRef 报告中的单品条目
type DroppedItemRef struct {
	ID       string `json:"id"`
	Style    string `json:"style"`
	Color    string `json:"color"`
	Division string `json:"division"`
	Location string `json:"location,omitempty"`
}

// SeasonalDropResult 季末下架结果，按仓位分组列出本次转为 dropped 的单品
type SeasonalDropResult struct {
	SourceFile             string                      `json:"source_file"`
	ActiveStylesCount      int                         `json:"active_styles_count"`
	DroppedCount           int                         `json:"dropped_count"`
	DroppedWithLocation    int                         `json:"dropped_with_location"`
	DroppedWithoutLocation int                         `json:"dropped_without_location"`
	ItemsByLocation        map[string][]DroppedItemRef `json:"items_by_location"`
	ItemsWithoutLocation   []DroppedItemRef            `json:"items_without_location"`
}

// Drop 执行季末下架。
// 在售快照只经过规范化，从不合并进目录；款式不在在售集合内的单品
// 状态转为 dropped，来源集合与存在性不受影响。重复执行不产生新变化。
func (s *SeasonalDropService) Drop(ctx context.Context, filePath, sourceFilename string) (*SeasonalDropResult, error) {
	wb, err := sheet.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	active := wb.ActiveStyles()
	activeList := make([]string, 0, len(active))
	for style := range active {
		activeList = append(activeList, style)
	}
	sort.Strings(activeList)

	result := &SeasonalDropResult{
		SourceFile:        sourceFilename,
		ActiveStylesCount: len(activeList),
		ItemsByLocation:   make(map[string][]DroppedItemRef),
	}

	err = s.items.Transaction(func(tx *gorm.DB) error {
		itemsTx := s.items.WithTx(tx)
		outside, err := itemsTx.ListByStyleNotIn(activeList, true)
		if err != nil {
			return err
		}

		var toDrop []string
		for _, item := range outside {
			if item.Status == constants.ItemStatusDropped {
				continue
			}
			toDrop = append(toDrop, item.ID)
			ref := DroppedItemRef{
				ID:       item.ID,
				Style:    item.Style,
				Color:    item.Color,
				Division: item.Division,
				Location: locationPath(item.Row),
			}
			if ref.Location == "" {
				result.ItemsWithoutLocation = append(result.ItemsWithoutLocation, ref)
				result.DroppedWithoutLocation++
				continue
			}
			result.ItemsByLocation[ref.Location] = append(result.ItemsByLocation[ref.Location], ref)
			result.DroppedWithLocation++
		}

		affected, err := itemsTx.BulkUpdateStatus(toDrop, constants.ItemStatusDropped, time.Now())
		if err != nil {
			return err
		}
		result.DroppedCount = int(affected)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("seasonal_drop_applied",
		"source_file", sourceFilename,
		"active_styles", result.ActiveStylesCount,
		"dropped_count", result.DroppedCount,
	)
	return result, nil
}

// DroppedReport 当前全部 dropped 单品的仓位分组报告
type DroppedReport struct {
	Total                int                         `json:"total"`
	ItemsByLocation      map[string][]DroppedItemRef `json:"items_by_location"`
	ItemsWithoutLocation []DroppedItemRef            `json:"items_without_location"`
}

// Report 汇总当前全部 dropped 单品
func (s *SeasonalDropService) Report(ctx context.Context) (*DroppedReport, error) {
	items, _, err := s.items.List(repository.ItemListFilter{
		Status:  constants.ItemStatusDropped,
		WithRow: true,
	})
	if err != nil {
		return nil, err
	}

	report := &DroppedReport{
		Total:           len(items),
		ItemsByLocation: make(map[string][]DroppedItemRef),
	}
	for _, item := range items {
		ref := DroppedItemRef{
			ID:       item.ID,
			Style:    item.Style,
			Color:    item.Color,
			Division: item.Division,
			Location: locationPath(item.Row),
		}
		if ref.Location == "" {
			report.ItemsWithoutLocation = append(report.ItemsWithoutLocation, ref)
			continue
		}
		report.ItemsByLocation[ref.Location] = append(report.ItemsByLocation[ref.Location], ref)
	}
	return report, nil
}

// locationPath 渲染 "房间 / 货架 / 层位" 形式的仓位路径，未定位时返回空串
func locationPath(row *models.ShelfRow) string {
	if row == nil {
		return ""
	}
	if row.Shelf == nil {
		return row.Name
	}
	if row.Shelf.Room == nil {
		return fmt.Sprintf("%s / %s", row.Shelf.Name, row.Name)
	}
	return fmt.Sprintf("%s / %s / %s", row.Shelf.Room.Name, row.Shelf.Name, row.Name)
}
