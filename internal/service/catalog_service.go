package service

import (
	"context"
	"sort"
	"time"

	"github.com/stockbook/internal/constants"
	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/models"
	"github.com/stockbook/internal/repository"
	"github.com/stockbook/internal/sheet"

	"gorm.io/gorm"
)

// CatalogService 目录查询与单品状态维护服务
type CatalogService struct {
	items     repository.ItemRepository
	summaries repository.StyleSummaryRepository
	actions   repository.InventoryActionRepository
	uploads   repository.FileUploadRepository
	locations repository.LocationRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(
	items repository.ItemRepository,
	summaries repository.StyleSummaryRepository,
	actions repository.InventoryActionRepository,
	uploads repository.FileUploadRepository,
	locations repository.LocationRepository,
) *CatalogService {
	return &CatalogService{
		items:     items,
		summaries: summaries,
		actions:   actions,
		uploads:   uploads,
		locations: locations,
	}
}

// StyleScanResult 款式扫描结果：汇总加全部颜色单品
type StyleScanResult struct {
	Summary *models.StyleSummary `json:"summary"`
	Items   []models.Item        `json:"items"`
}

// ScanStyle 按款式基码扫描：汇总行不存在时返回 ErrNotFound。
// 入参允许未补零的原始款号。
func (s *CatalogService) ScanStyle(ctx context.Context, style string) (*StyleScanResult, error) {
	padded := sheet.PadStyle(sheet.BaseStyle(style))
	summary, err := s.summaries.GetByStyle(padded)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrNotFound
	}
	items, err := s.items.ListByStyle(padded, true)
	if err != nil {
		return nil, err
	}
	return &StyleScanResult{Summary: summary, Items: items}, nil
}

// SearchItems 按关键字/过滤条件检索单品
func (s *CatalogService) SearchItems(ctx context.Context, filter repository.ItemListFilter) ([]models.Item, int64, error) {
	return s.items.List(filter)
}

// ListSummaries 款式汇总列表
func (s *CatalogService) ListSummaries(ctx context.Context, filter repository.StyleSummaryListFilter) ([]models.StyleSummary, int64, error) {
	return s.summaries.List(filter)
}

// CatalogStats 目录统计
type CatalogStats struct {
	TotalItems     int64            `json:"total_items"`
	TotalStyles    int64            `json:"total_styles"`
	StatusCounts   map[string]int64 `json:"status_counts"`
	DivisionCounts map[string]int64 `json:"division_counts"`
	GenderCounts   map[string]int64 `json:"gender_counts"`
	WidthCounts    map[string]int64 `json:"width_counts"`
	SnapshotCount  int64            `json:"snapshot_count"`
}

// Stats 汇总目录统计数字，每个状态都出现在结果中，缺省为 0。
// 宽版统计从颜色串派生，快照计数只含导入成功的批次。
func (s *CatalogService) Stats(ctx context.Context) (*CatalogStats, error) {
	counts, err := s.items.CountByStatus()
	if err != nil {
		return nil, err
	}
	stats := &CatalogStats{StatusCounts: make(map[string]int64, len(constants.ItemStatuses))}
	for _, status := range constants.ItemStatuses {
		stats.StatusCounts[status] = counts[status]
	}
	for _, n := range counts {
		stats.TotalItems += n
	}
	styles, err := s.summaries.ListStyles()
	if err != nil {
		return nil, err
	}
	stats.TotalStyles = int64(len(styles))

	if stats.DivisionCounts, err = s.items.CountByDivision(); err != nil {
		return nil, err
	}
	if stats.GenderCounts, err = s.items.CountByGender(); err != nil {
		return nil, err
	}

	colors, err := s.items.ListColors()
	if err != nil {
		return nil, err
	}
	stats.WidthCounts = map[string]int64{
		sheet.WidthClassRegular:   0,
		sheet.WidthClassWide:      0,
		sheet.WidthClassExtraWide: 0,
	}
	for _, color := range colors {
		stats.WidthCounts[sheet.WidthClass(color)]++
	}

	_, total, err := s.uploads.List(repository.FileUploadListFilter{
		Status:   constants.UploadStatusCompleted,
		PageSize: 1,
	})
	if err != nil {
		return nil, err
	}
	stats.SnapshotCount = total
	return stats, nil
}

// ListSnapshots 快照导入记录列表
func (s *CatalogService) ListSnapshots(ctx context.Context, filter repository.FileUploadListFilter) ([]models.FileUpload, int64, error) {
	return s.uploads.List(filter)
}

// ListSnapshotItems 获取来源集合包含指定快照的单品。
// 快照记录不存在时返回 ErrNotFound。
func (s *CatalogService) ListSnapshotItems(ctx context.Context, filename string) ([]models.Item, error) {
	upload, err := s.uploads.GetByFilename(filename)
	if err != nil {
		return nil, err
	}
	if upload == nil {
		return nil, ErrNotFound
	}
	return s.items.ListBySourceFile(filename)
}

// UpdateItemStatus 更新单品状态并写入操作流水。
// 状态不合法返回 ErrInvalidStatus，单品不存在返回 ErrNotFound。
func (s *CatalogService) UpdateItemStatus(ctx context.Context, id, status, operator, notes string) (*models.Item, error) {
	if !validItemStatus(status) {
		return nil, ErrInvalidStatus
	}
	item, err := s.items.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	err = s.items.Transaction(func(tx *gorm.DB) error {
		itemsTx := s.items.WithTx(tx)
		if _, err := itemsTx.UpdateStatus(id, status, time.Now()); err != nil {
			return err
		}
		return s.actions.WithTx(tx).Create(&models.InventoryAction{
			ItemID:     item.ID,
			Style:      item.Style,
			Color:      item.Color,
			Action:     constants.ActionTypeAdjust,
			Notes:      notes,
			Operator:   operator,
			SourceFile: defaultActionSource("", item),
		})
	})
	if err != nil {
		return nil, err
	}
	item.Status = status
	logger.Infow("item_status_updated", "item_id", id, "status", status, "operator", operator)
	return item, nil
}

// BulkUpdateStatus 批量更新状态，返回受影响行数
func (s *CatalogService) BulkUpdateStatus(ctx context.Context, ids []string, status string) (int64, error) {
	if !validItemStatus(status) {
		return 0, ErrInvalidStatus
	}
	if len(ids) == 0 {
		return 0, nil
	}
	affected, err := s.items.BulkUpdateStatus(ids, status, time.Now())
	if err != nil {
		return 0, err
	}
	logger.Infow("items_status_bulk_updated", "status", status, "affected", affected)
	return affected, nil
}

// UpdateItemLocation 把单品移动到指定层位，rowID 为 nil 表示移出仓位。
// 单品或层位不存在返回 ErrNotFound。
func (s *CatalogService) UpdateItemLocation(ctx context.Context, id string, rowID *uint, operator string) (*models.Item, error) {
	item, err := s.items.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	location := ""
	if rowID != nil {
		row, err := s.locations.GetRow(*rowID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, ErrNotFound
		}
		location = locationPath(row)
	}
	err = s.items.Transaction(func(tx *gorm.DB) error {
		if _, err := s.items.WithTx(tx).UpdateLocation(id, rowID, time.Now()); err != nil {
			return err
		}
		return s.actions.WithTx(tx).Create(&models.InventoryAction{
			ItemID:     item.ID,
			Style:      item.Style,
			Color:      item.Color,
			Action:     constants.ActionTypeMove,
			Location:   location,
			Operator:   operator,
			SourceFile: defaultActionSource("", item),
		})
	})
	if err != nil {
		return nil, err
	}
	return s.items.GetByID(id, true)
}

// ItemProfile 单品档案：单品本身加操作流水
type ItemProfile struct {
	Item    *models.Item             `json:"item"`
	Actions []models.InventoryAction `json:"actions"`
}

// Profile 获取单品档案，单品不存在返回 ErrNotFound
func (s *CatalogService) Profile(ctx context.Context, id string) (*ItemProfile, error) {
	item, err := s.items.GetByID(id, true)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	actions, _, err := s.actions.List(repository.InventoryActionListFilter{
		Style: item.Style,
		Color: item.Color,
	})
	if err != nil {
		return nil, err
	}
	return &ItemProfile{Item: item, Actions: actions}, nil
}

// RecountSummaries 按单品表重算款式汇总。
// styles 为空时重算全部款式，并删除已无单品支撑的汇总行。
func (s *CatalogService) RecountSummaries(ctx context.Context, styles []string) (int, error) {
	if len(styles) == 0 {
		itemStyles, err := s.items.ListStyles()
		if err != nil {
			return 0, err
		}
		summaryStyles, err := s.summaries.ListStyles()
		if err != nil {
			return 0, err
		}
		seen := make(map[string]struct{}, len(itemStyles)+len(summaryStyles))
		for _, style := range itemStyles {
			seen[style] = struct{}{}
		}
		for _, style := range summaryStyles {
			seen[style] = struct{}{}
		}
		styles = make([]string, 0, len(seen))
		for style := range seen {
			styles = append(styles, style)
		}
		sort.Strings(styles)
	}

	var touched int
	for _, style := range styles {
		changed, err := s.recountStyle(style)
		if err != nil {
			return touched, err
		}
		if changed {
			touched++
		}
	}
	logger.Infow("summaries_recounted", "styles", len(styles), "touched", touched)
	return touched, nil
}

func (s *CatalogService) recountStyle(style string) (bool, error) {
	items, err := s.items.ListByStyle(style, false)
	if err != nil {
		return false, err
	}
	summary, err := s.summaries.GetByStyle(style)
	if err != nil {
		return false, err
	}

	if len(items) == 0 {
		if summary == nil {
			return false, nil
		}
		return true, s.summaries.Delete(style)
	}

	colorSet := make(map[string]struct{})
	fileSet := make(map[string]struct{})
	var colors []string
	for _, item := range items {
		if _, ok := colorSet[item.Color]; !ok {
			colorSet[item.Color] = struct{}{}
			colors = append(colors, item.Color)
		}
		for _, file := range item.SourceFiles {
			fileSet[file] = struct{}{}
		}
	}
	sort.Strings(colors)
	files := make([]string, 0, len(fileSet))
	for file := range fileSet {
		files = append(files, file)
	}
	sort.Strings(files)

	last := items[len(items)-1]
	if summary == nil {
		return true, s.summaries.Create(&models.StyleSummary{
			Style:       style,
			AllColors:   colors,
			Division:    last.Division,
			Outsole:     last.Outsole,
			Gender:      last.Gender,
			SourceFiles: files,
			ColorCount:  len(colors),
		})
	}
	summary.AllColors = colors
	summary.ColorCount = len(colors)
	summary.SourceFiles = files
	return true, s.summaries.Save(summary)
}

func validItemStatus(status string) bool {
	for _, s := range constants.ItemStatuses {
		if s == status {
			return true
		}
	}
	return false
}
