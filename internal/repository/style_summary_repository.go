package repository

import (
	"errors"
	"strings"

	"github.com/stockbook/internal/models"

	"gorm.io/gorm"
)

// StyleSummaryRepository 款式汇总数据访问接口
type StyleSummaryRepository interface {
	List(filter StyleSummaryListFilter) ([]models.StyleSummary, int64, error)
	GetByStyle(style string) (*models.StyleSummary, error)
	ListBySourceFile(filename string) ([]models.StyleSummary, error)
	ListStyles() ([]string, error)
	Create(summary *models.StyleSummary) error
	Save(summary *models.StyleSummary) error
	Delete(style string) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) StyleSummaryRepository
}

// GormStyleSummaryRepository GORM 实现
type GormStyleSummaryRepository struct {
	db *gorm.DB
}

// NewStyleSummaryRepository 创建款式汇总仓库
func NewStyleSummaryRepository(db *gorm.DB) *GormStyleSummaryRepository {
	return &GormStyleSummaryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormStyleSummaryRepository) WithTx(tx *gorm.DB) StyleSummaryRepository {
	if tx == nil {
		return r
	}
	return &GormStyleSummaryRepository{db: tx}
}

// Transaction 执行事务
func (r *GormStyleSummaryRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 款式汇总列表
func (r *GormStyleSummaryRepository) List(filter StyleSummaryListFilter) ([]models.StyleSummary, int64, error) {
	var summaries []models.StyleSummary
	query := r.db.Model(&models.StyleSummary{})

	if filter.SourceFile != "" {
		query = query.Where(jsonArrayContainsExpr(r.db, "source_files"), filter.SourceFile)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		operator := likeOperator(r.db)
		query = query.Where(
			"style "+operator+" ? OR division "+operator+" ?",
			like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("style ASC").Find(&summaries).Error; err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// GetByStyle 根据款式基码获取汇总
func (r *GormStyleSummaryRepository) GetByStyle(style string) (*models.StyleSummary, error) {
	var summary models.StyleSummary
	if err := r.db.First(&summary, "style = ?", style).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

// ListBySourceFile 获取来源集合包含指定快照的全部汇总
func (r *GormStyleSummaryRepository) ListBySourceFile(filename string) ([]models.StyleSummary, error) {
	var summaries []models.StyleSummary
	err := r.db.
		Where(jsonArrayContainsExpr(r.db, "source_files"), filename).
		Order("style ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// ListStyles 获取全部汇总的款式基码
func (r *GormStyleSummaryRepository) ListStyles() ([]string, error) {
	var styles []string
	err := r.db.Model(&models.StyleSummary{}).
		Order("style ASC").
		Pluck("style", &styles).Error
	if err != nil {
		return nil, err
	}
	return styles, nil
}

// Create 创建款式汇总
func (r *GormStyleSummaryRepository) Create(summary *models.StyleSummary) error {
	return r.db.Create(summary).Error
}

// Save 保存款式汇总全部字段
func (r *GormStyleSummaryRepository) Save(summary *models.StyleSummary) error {
	return r.db.Save(summary).Error
}

// Delete 删除款式汇总
func (r *GormStyleSummaryRepository) Delete(style string) error {
	return r.db.Delete(&models.StyleSummary{}, "style = ?", style).Error
}
