package repository

import (
	"errors"

	"github.com/stockbook/internal/models"

	"gorm.io/gorm"
)

// FileUploadRepository 快照导入记录数据访问接口
type FileUploadRepository interface {
	List(filter FileUploadListFilter) ([]models.FileUpload, int64, error)
	GetByFilename(filename string) (*models.FileUpload, error)
	Create(upload *models.FileUpload) error
	Save(upload *models.FileUpload) error
	DeleteByFilename(filename string) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) FileUploadRepository
}

// GormFileUploadRepository GORM 实现
type GormFileUploadRepository struct {
	db *gorm.DB
}

// NewFileUploadRepository 创建快照导入记录仓库
func NewFileUploadRepository(db *gorm.DB) *GormFileUploadRepository {
	return &GormFileUploadRepository{db: db}
}

// WithTx 绑定事务
func (r *GormFileUploadRepository) WithTx(tx *gorm.DB) FileUploadRepository {
	if tx == nil {
		return r
	}
	return &GormFileUploadRepository{db: tx}
}

// Transaction 执行事务
func (r *GormFileUploadRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 导入记录列表，按上传时间倒序
func (r *GormFileUploadRepository) List(filter FileUploadListFilter) ([]models.FileUpload, int64, error) {
	var uploads []models.FileUpload
	query := r.db.Model(&models.FileUpload{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("uploaded_at DESC").Find(&uploads).Error; err != nil {
		return nil, 0, err
	}
	return uploads, total, nil
}

// GetByFilename 根据快照文件名获取导入记录
func (r *GormFileUploadRepository) GetByFilename(filename string) (*models.FileUpload, error) {
	var upload models.FileUpload
	if err := r.db.First(&upload, "filename = ?", filename).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &upload, nil
}

// Create 创建导入记录
func (r *GormFileUploadRepository) Create(upload *models.FileUpload) error {
	return r.db.Create(upload).Error
}

// Save 保存导入记录全部字段
func (r *GormFileUploadRepository) Save(upload *models.FileUpload) error {
	return r.db.Save(upload).Error
}

// DeleteByFilename 删除导入记录
func (r *GormFileUploadRepository) DeleteByFilename(filename string) error {
	return r.db.Delete(&models.FileUpload{}, "filename = ?", filename).Error
}
