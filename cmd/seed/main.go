package main

import (
	"fmt"

	"github.com/stockbook/internal/config"
	"github.com/stockbook/internal/logger"
	"github.com/stockbook/internal/models"
)

// 仓库布局种子数据，按 房间 -> 货架 -> 层位 三级展开
var layout = map[string]map[string][]string{
	"样品间": {
		"A架": {"第一层", "第二层", "第三层"},
		"B架": {"第一层", "第二层", "第三层"},
	},
	"主仓库": {
		"A架": {"第一层", "第二层", "第三层", "第四层"},
		"B架": {"第一层", "第二层", "第三层", "第四层"},
		"C架": {"第一层", "第二层"},
	},
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	created := 0
	for roomName, shelves := range layout {
		room, err := ensureRoom(roomName)
		if err != nil {
			stdLog.Fatalf("Failed to ensure room %s: %v", roomName, err)
		}
		for shelfName, rows := range shelves {
			shelf, err := ensureShelf(room.ID, shelfName)
			if err != nil {
				stdLog.Fatalf("Failed to ensure shelf %s/%s: %v", roomName, shelfName, err)
			}
			for _, rowName := range rows {
				ok, err := ensureRow(shelf.ID, rowName)
				if err != nil {
					stdLog.Fatalf("Failed to ensure row %s/%s/%s: %v", roomName, shelfName, rowName, err)
				}
				if ok {
					created++
					stdLog.Printf("Created row: %s / %s / %s", roomName, shelfName, rowName)
				}
			}
		}
	}

	fmt.Printf("Seed completed, %d new rows created\n", created)
}

func ensureRoom(name string) (*models.Room, error) {
	var room models.Room
	if err := models.DB.Where("name = ?", name).First(&room).Error; err == nil {
		return &room, nil
	}
	room = models.Room{Name: name}
	if err := models.DB.Create(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func ensureShelf(roomID uint, name string) (*models.Shelf, error) {
	var shelf models.Shelf
	if err := models.DB.Where("room_id = ? AND name = ?", roomID, name).First(&shelf).Error; err == nil {
		return &shelf, nil
	}
	shelf = models.Shelf{RoomID: roomID, Name: name}
	if err := models.DB.Create(&shelf).Error; err != nil {
		return nil, err
	}
	return &shelf, nil
}

func ensureRow(shelfID uint, name string) (bool, error) {
	var row models.ShelfRow
	if err := models.DB.Where("shelf_id = ? AND name = ?", shelfID, name).First(&row).Error; err == nil {
		return false, nil
	}
	row = models.ShelfRow{ShelfID: shelfID, Name: name}
	if err := models.DB.Create(&row).Error; err != nil {
		return false, err
	}
	return true, nil
}
