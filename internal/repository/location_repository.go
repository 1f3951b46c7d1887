package repository

import (
	"errors"

	"github.com/stockbook/internal/models"

	"gorm.io/gorm"
)

// LocationRepository 仓库位置树（房间/货架/层位）数据访问接口
type LocationRepository interface {
	ListRooms(withChildren bool) ([]models.Room, error)
	GetRoom(id uint) (*models.Room, error)
	CreateRoom(room *models.Room) error
	DeleteRoom(id uint) error
	CountRoomsByName(name string, excludeID *uint) (int64, error)

	ListShelves(roomID uint) ([]models.Shelf, error)
	GetShelf(id uint) (*models.Shelf, error)
	CreateShelf(shelf *models.Shelf) error
	DeleteShelf(id uint) error
	CountShelvesByName(roomID uint, name string) (int64, error)

	ListRows(shelfID uint) ([]models.ShelfRow, error)
	GetRow(id uint) (*models.ShelfRow, error)
	CreateRow(row *models.ShelfRow) error
	DeleteRow(id uint) error
	CountRowsByName(shelfID uint, name string) (int64, error)

	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) LocationRepository
}

// GormLocationRepository GORM 实现
type GormLocationRepository struct {
	db *gorm.DB
}

// NewLocationRepository 创建仓库位置仓库
func NewLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLocationRepository) WithTx(tx *gorm.DB) LocationRepository {
	if tx == nil {
		return r
	}
	return &GormLocationRepository{db: tx}
}

// Transaction 执行事务
func (r *GormLocationRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListRooms 房间列表，withChildren 时级联加载货架与层位
func (r *GormLocationRepository) ListRooms(withChildren bool) ([]models.Room, error) {
	var rooms []models.Room
	query := r.db.Model(&models.Room{})
	if withChildren {
		query = query.Preload("Shelves", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).Preload("Shelves.Rows", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
	}
	if err := query.Order("name ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom 根据 ID 获取房间
func (r *GormLocationRepository) GetRoom(id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// CreateRoom 创建房间
func (r *GormLocationRepository) CreateRoom(room *models.Room) error {
	return r.db.Create(room).Error
}

// DeleteRoom 删除房间及其级联的货架与层位
func (r *GormLocationRepository) DeleteRoom(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var shelfIDs []uint
		if err := tx.Model(&models.Shelf{}).Where("room_id = ?", id).Pluck("id", &shelfIDs).Error; err != nil {
			return err
		}
		if len(shelfIDs) > 0 {
			var rowIDs []uint
			if err := tx.Model(&models.ShelfRow{}).Where("shelf_id IN ?", shelfIDs).Pluck("id", &rowIDs).Error; err != nil {
				return err
			}
			if len(rowIDs) > 0 {
				if err := tx.Model(&models.Item{}).Where("row_id IN ?", rowIDs).Update("row_id", nil).Error; err != nil {
					return err
				}
				if err := tx.Delete(&models.ShelfRow{}, "id IN ?", rowIDs).Error; err != nil {
					return err
				}
			}
			if err := tx.Delete(&models.Shelf{}, "id IN ?", shelfIDs).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Room{}, id).Error
	})
}

// CountRoomsByName 按名称统计房间数量，用于唯一性校验
func (r *GormLocationRepository) CountRoomsByName(name string, excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Room{}).Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListShelves 某房间下的货架列表
func (r *GormLocationRepository) ListShelves(roomID uint) ([]models.Shelf, error) {
	var shelves []models.Shelf
	query := r.db.Model(&models.Shelf{})
	if roomID > 0 {
		query = query.Where("room_id = ?", roomID)
	}
	if err := query.Order("name ASC").Find(&shelves).Error; err != nil {
		return nil, err
	}
	return shelves, nil
}

// GetShelf 根据 ID 获取货架
func (r *GormLocationRepository) GetShelf(id uint) (*models.Shelf, error) {
	var shelf models.Shelf
	if err := r.db.First(&shelf, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &shelf, nil
}

// CreateShelf 创建货架
func (r *GormLocationRepository) CreateShelf(shelf *models.Shelf) error {
	return r.db.Create(shelf).Error
}

// DeleteShelf 删除货架及其级联的层位
func (r *GormLocationRepository) DeleteShelf(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var rowIDs []uint
		if err := tx.Model(&models.ShelfRow{}).Where("shelf_id = ?", id).Pluck("id", &rowIDs).Error; err != nil {
			return err
		}
		if len(rowIDs) > 0 {
			if err := tx.Model(&models.Item{}).Where("row_id IN ?", rowIDs).Update("row_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.ShelfRow{}, "id IN ?", rowIDs).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Shelf{}, id).Error
	})
}

// CountShelvesByName 按名称统计房间内货架数量
func (r *GormLocationRepository) CountShelvesByName(roomID uint, name string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Shelf{}).
		Where("room_id = ? AND name = ?", roomID, name).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ListRows 某货架下的层位列表
func (r *GormLocationRepository) ListRows(shelfID uint) ([]models.ShelfRow, error) {
	var rows []models.ShelfRow
	query := r.db.Model(&models.ShelfRow{})
	if shelfID > 0 {
		query = query.Where("shelf_id = ?", shelfID)
	}
	if err := query.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetRow 根据 ID 获取层位，带货架关联
func (r *GormLocationRepository) GetRow(id uint) (*models.ShelfRow, error) {
	var row models.ShelfRow
	if err := r.db.Preload("Shelf").Preload("Shelf.Room").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CreateRow 创建层位
func (r *GormLocationRepository) CreateRow(row *models.ShelfRow) error {
	return r.db.Create(row).Error
}

// DeleteRow 删除层位并解除单品占用
func (r *GormLocationRepository) DeleteRow(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Item{}).Where("row_id = ?", id).Update("row_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ShelfRow{}, id).Error
	})
}

// CountRowsByName 按名称统计货架内层位数量
func (r *GormLocationRepository) CountRowsByName(shelfID uint, name string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ShelfRow{}).
		Where("shelf_id = ? AND name = ?", shelfID, name).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
