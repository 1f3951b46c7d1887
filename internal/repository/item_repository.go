package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/stockbook/internal/models"

	"gorm.io/gorm"
)

// ItemRepository 单品数据访问接口
type ItemRepository interface {
	List(filter ItemListFilter) ([]models.Item, int64, error)
	GetByID(id string, withRow bool) (*models.Item, error)
	ListByStyle(style string, withRow bool) ([]models.Item, error)
	ListBySourceFile(filename string) ([]models.Item, error)
	ListByStyleNotIn(styles []string, withRow bool) ([]models.Item, error)
	CountByStatus() (map[string]int64, error)
	CountByDivision() (map[string]int64, error)
	CountByGender() (map[string]int64, error)
	ListColors() ([]string, error)
	DistinctColorsByStyle(style string) ([]string, error)
	ListStyles() ([]string, error)
	Create(item *models.Item) error
	Save(item *models.Item) error
	UpdateStatus(id, status string, now time.Time) (int64, error)
	BulkUpdateStatus(ids []string, status string, now time.Time) (int64, error)
	UpdateLocation(id string, rowID *uint, now time.Time) (int64, error)
	Delete(id string) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ItemRepository
}

// GormItemRepository GORM 实现
type GormItemRepository struct {
	db *gorm.DB
}

// NewItemRepository 创建单品仓库
func NewItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormItemRepository) WithTx(tx *gorm.DB) ItemRepository {
	if tx == nil {
		return r
	}
	return &GormItemRepository{db: tx}
}

// Transaction 执行事务
func (r *GormItemRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 单品列表
func (r *GormItemRepository) List(filter ItemListFilter) ([]models.Item, int64, error) {
	var items []models.Item
	query := r.db.Model(&models.Item{})

	if filter.WithRow {
		query = query.Preload("Row").Preload("Row.Shelf").Preload("Row.Shelf.Room")
	}
	if filter.Style != "" {
		query = query.Where("style = ?", filter.Style)
	}
	if filter.Color != "" {
		query = query.Where("color = ?", filter.Color)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.RowID != nil {
		query = query.Where("row_id = ?", *filter.RowID)
	}
	if filter.SourceFile != "" {
		query = query.Where(jsonArrayContainsExpr(r.db, "source_files"), filter.SourceFile)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		operator := likeOperator(r.db)
		query = query.Where(
			"style "+operator+" ? OR color "+operator+" ? OR division "+operator+" ?",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "style ASC, color ASC"
	}
	if err := query.Order(orderBy).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// GetByID 根据规范主键获取单品
func (r *GormItemRepository) GetByID(id string, withRow bool) (*models.Item, error) {
	var item models.Item
	query := r.db
	if withRow {
		query = query.Preload("Row").Preload("Row.Shelf").Preload("Row.Shelf.Room")
	}
	if err := query.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListByStyle 获取某款式下的全部单品
func (r *GormItemRepository) ListByStyle(style string, withRow bool) ([]models.Item, error) {
	var items []models.Item
	query := r.db.Where("style = ?", style)
	if withRow {
		query = query.Preload("Row").Preload("Row.Shelf").Preload("Row.Shelf.Room")
	}
	if err := query.Order("color ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListBySourceFile 获取来源集合包含指定快照的全部单品
func (r *GormItemRepository) ListBySourceFile(filename string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.
		Where(jsonArrayContainsExpr(r.db, "source_files"), filename).
		Order("style ASC, color ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListByStyleNotIn 获取款式不在给定集合内的全部单品，用于季末下架
func (r *GormItemRepository) ListByStyleNotIn(styles []string, withRow bool) ([]models.Item, error) {
	var items []models.Item
	query := r.db.Model(&models.Item{})
	if withRow {
		query = query.Preload("Row").Preload("Row.Shelf").Preload("Row.Shelf.Room")
	}
	if len(styles) > 0 {
		query = query.Where("style NOT IN ?", styles)
	}
	if err := query.Order("style ASC, color ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountByStatus 按状态统计单品数量
func (r *GormItemRepository) CountByStatus() (map[string]int64, error) {
	return r.countGrouped("status")
}

// CountByDivision 按事业部统计单品数量
func (r *GormItemRepository) CountByDivision() (map[string]int64, error) {
	return r.countGrouped("division")
}

// CountByGender 按适用性别统计单品数量
func (r *GormItemRepository) CountByGender() (map[string]int64, error) {
	return r.countGrouped("gender")
}

func (r *GormItemRepository) countGrouped(column string) (map[string]int64, error) {
	type groupCount struct {
		Key   string
		Count int64
	}
	var rows []groupCount
	err := r.db.Model(&models.Item{}).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// ListColors 获取全部单品的颜色列，用于派生宽版统计
func (r *GormItemRepository) ListColors() ([]string, error) {
	var colors []string
	err := r.db.Model(&models.Item{}).
		Pluck("color", &colors).Error
	if err != nil {
		return nil, err
	}
	return colors, nil
}

// DistinctColorsByStyle 获取某款式下现存单品的去重颜色
func (r *GormItemRepository) DistinctColorsByStyle(style string) ([]string, error) {
	var colors []string
	err := r.db.Model(&models.Item{}).
		Where("style = ?", style).
		Distinct("color").
		Order("color ASC").
		Pluck("color", &colors).Error
	if err != nil {
		return nil, err
	}
	return colors, nil
}

// ListStyles 获取现存单品的去重款式基码
func (r *GormItemRepository) ListStyles() ([]string, error) {
	var styles []string
	err := r.db.Model(&models.Item{}).
		Distinct("style").
		Order("style ASC").
		Pluck("style", &styles).Error
	if err != nil {
		return nil, err
	}
	return styles, nil
}

// Create 创建单品
func (r *GormItemRepository) Create(item *models.Item) error {
	return r.db.Create(item).Error
}

// Save 保存单品全部字段
func (r *GormItemRepository) Save(item *models.Item) error {
	return r.db.Save(item).Error
}

// UpdateStatus 更新单品状态
func (r *GormItemRepository) UpdateStatus(id, status string, now time.Time) (int64, error) {
	result := r.db.Model(&models.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": now})
	return result.RowsAffected, result.Error
}

// BulkUpdateStatus 批量更新单品状态
func (r *GormItemRepository) BulkUpdateStatus(ids []string, status string, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Item{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"status": status, "updated_at": now})
	return result.RowsAffected, result.Error
}

// UpdateLocation 更新单品所在层位，rowID 为空表示移出仓位
func (r *GormItemRepository) UpdateLocation(id string, rowID *uint, now time.Time) (int64, error) {
	result := r.db.Model(&models.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"row_id": rowID, "updated_at": now})
	return result.RowsAffected, result.Error
}

// Delete 删除单品
func (r *GormItemRepository) Delete(id string) error {
	return r.db.Delete(&models.Item{}, "id = ?", id).Error
}
