package service

import (
	"context"
	"strings"

	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/models"
	"github.com/stockbook/internal/repository"
)

// LocationService 仓位（房间/货架/层位）管理服务
type LocationService struct {
	locations repository.LocationRepository
}

// NewLocationService 创建仓位服务
func NewLocationService(locations repository.LocationRepository) *LocationService {
	return &LocationService{locations: locations}
}

// Layout 返回完整仓位布局：房间带货架、货架带层位
func (s *LocationService) Layout(ctx context.Context) ([]models.Room, error) {
	return s.locations.ListRooms(true)
}

// ListRooms 房间列表
func (s *LocationService) ListRooms(ctx context.Context) ([]models.Room, error) {
	return s.locations.ListRooms(false)
}

// CreateRoom 创建房间，名称重复返回 ErrNameExists
func (s *LocationService) CreateRoom(ctx context.Context, name string) (*models.Room, error) {
	name = strings.TrimSpace(name)
	count, err := s.locations.CountRoomsByName(name, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameExists
	}
	room := &models.Room{Name: name}
	if err := s.locations.CreateRoom(room); err != nil {
		return nil, err
	}
	logger.Infow("room_created", "room_id", room.ID, "name", name)
	return room, nil
}

// DeleteRoom 删除房间并级联清理货架与层位，房间内单品仓位置空。
// 房间不存在返回 ErrNotFound。
func (s *LocationService) DeleteRoom(ctx context.Context, id uint) error {
	room, err := s.locations.GetRoom(id)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrNotFound
	}
	if err := s.locations.DeleteRoom(id); err != nil {
		return err
	}
	logger.Infow("room_deleted", "room_id", id, "name", room.Name)
	return nil
}

// ListShelves 货架列表，roomID 为 0 时返回全部
func (s *LocationService) ListShelves(ctx context.Context, roomID uint) ([]models.Shelf, error) {
	return s.locations.ListShelves(roomID)
}

// CreateShelf 在指定房间创建货架。
// 房间不存在返回 ErrNotFound，同房间名称重复返回 ErrNameExists。
func (s *LocationService) CreateShelf(ctx context.Context, roomID uint, name string) (*models.Shelf, error) {
	name = strings.TrimSpace(name)
	room, err := s.locations.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrNotFound
	}
	count, err := s.locations.CountShelvesByName(roomID, name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameExists
	}
	shelf := &models.Shelf{RoomID: roomID, Name: name}
	if err := s.locations.CreateShelf(shelf); err != nil {
		return nil, err
	}
	logger.Infow("shelf_created", "shelf_id", shelf.ID, "room_id", roomID, "name", name)
	return shelf, nil
}

// DeleteShelf 删除货架并级联清理层位，货架不存在返回 ErrNotFound
func (s *LocationService) DeleteShelf(ctx context.Context, id uint) error {
	shelf, err := s.locations.GetShelf(id)
	if err != nil {
		return err
	}
	if shelf == nil {
		return ErrNotFound
	}
	if err := s.locations.DeleteShelf(id); err != nil {
		return err
	}
	logger.Infow("shelf_deleted", "shelf_id", id, "name", shelf.Name)
	return nil
}

// ListRows 层位列表，shelfID 为 0 时返回全部
func (s *LocationService) ListRows(ctx context.Context, shelfID uint) ([]models.ShelfRow, error) {
	return s.locations.ListRows(shelfID)
}

// CreateRow 在指定货架创建层位。
// 货架不存在返回 ErrNotFound，同货架名称重复返回 ErrNameExists。
func (s *LocationService) CreateRow(ctx context.Context, shelfID uint, name string) (*models.ShelfRow, error) {
	name = strings.TrimSpace(name)
	shelf, err := s.locations.GetShelf(shelfID)
	if err != nil {
		return nil, err
	}
	if shelf == nil {
		return nil, ErrNotFound
	}
	count, err := s.locations.CountRowsByName(shelfID, name)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrNameExists
	}
	row := &models.ShelfRow{ShelfID: shelfID, Name: name}
	if err := s.locations.CreateRow(row); err != nil {
		return nil, err
	}
	logger.Infow("row_created", "row_id", row.ID, "shelf_id", shelfID, "name", name)
	return row, nil
}

// DeleteRow 删除层位并把其中单品的仓位置空，层位不存在返回 ErrNotFound
func (s *LocationService) DeleteRow(ctx context.Context, id uint) error {
	row, err := s.locations.GetRow(id)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrNotFound
	}
	if err := s.locations.DeleteRow(id); err != nil {
		return err
	}
	logger.Infow("row_deleted", "row_id", id, "name", row.Name)
	return nil
}
