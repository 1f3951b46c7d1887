package repository

import (
	"github.com/stockbook/internal/models"

	"gorm.io/gorm"
)

// InventoryActionRepository 库存操作流水数据访问接口
type InventoryActionRepository interface {
	List(filter InventoryActionListFilter) ([]models.InventoryAction, int64, error)
	Create(action *models.InventoryAction) error
	DeleteBySourceFile(filename string) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) InventoryActionRepository
}

// GormInventoryActionRepository GORM 实现
type GormInventoryActionRepository struct {
	db *gorm.DB
}

// NewInventoryActionRepository 创建库存操作流水仓库
func NewInventoryActionRepository(db *gorm.DB) *GormInventoryActionRepository {
	return &GormInventoryActionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormInventoryActionRepository) WithTx(tx *gorm.DB) InventoryActionRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryActionRepository{db: tx}
}

// Transaction 执行事务
func (r *GormInventoryActionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 操作流水列表，按操作时间倒序
func (r *GormInventoryActionRepository) List(filter InventoryActionListFilter) ([]models.InventoryAction, int64, error) {
	var actions []models.InventoryAction
	query := r.db.Model(&models.InventoryAction{})

	if filter.Style != "" {
		query = query.Where("style = ?", filter.Style)
	}
	if filter.Color != "" {
		query = query.Where("color = ?", filter.Color)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.SourceFile != "" {
		query = query.Where("source_file = ?", filter.SourceFile)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&actions).Error; err != nil {
		return nil, 0, err
	}
	return actions, total, nil
}

// Create 写入一条操作流水
func (r *GormInventoryActionRepository) Create(action *models.InventoryAction) error {
	return r.db.Create(action).Error
}

// DeleteBySourceFile 删除关联指定快照的全部流水
func (r *GormInventoryActionRepository) DeleteBySourceFile(filename string) (int64, error) {
	result := r.db.Delete(&models.InventoryAction{}, "source_file = ?", filename)
	return result.RowsAffected, result.Error
}
