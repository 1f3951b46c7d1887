package models

import (
	"time"
)

// Room 仓库房间
type Room struct {
	ID          uint      `gorm:"primarykey" json:"id"`                             // 主键
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 房间名称，全局唯一
	Description string    `gorm:"type:varchar(500)" json:"description"`             // 描述
	Shelves     []Shelf   `gorm:"foreignKey:RoomID" json:"shelves,omitempty"`       // 房间内货架
	CreatedAt   time.Time `json:"created_at"`                                       // 创建时间
}

// TableName 指定表名
func (Room) TableName() string {
	return "rooms"
}

// Shelf 房间内货架
type Shelf struct {
	ID          uint       `gorm:"primarykey" json:"id"`                                                 // 主键
	RoomID      uint       `gorm:"not null;uniqueIndex:uix_room_shelf" json:"room_id"`                   // 所属房间
	Name        string     `gorm:"type:varchar(100);not null;uniqueIndex:uix_room_shelf" json:"name"`    // 货架名称，房间内唯一
	Description string     `gorm:"type:varchar(500)" json:"description"`                                 // 描述
	Room        *Room      `gorm:"foreignKey:RoomID" json:"room,omitempty"`                              // 房间关联
	Rows        []ShelfRow `gorm:"foreignKey:ShelfID" json:"rows,omitempty"`                             // 货架内层位
	CreatedAt   time.Time  `json:"created_at"`                                                           // 创建时间
}

// TableName 指定表名
func (Shelf) TableName() string {
	return "shelves"
}

// ShelfRow 货架内层位，单品定位的最小单元
type ShelfRow struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                              // 主键
	ShelfID     uint      `gorm:"not null;uniqueIndex:uix_shelf_row" json:"shelf_id"`                // 所属货架
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:uix_shelf_row" json:"name"`  // 层位名称，货架内唯一
	Description string    `gorm:"type:varchar(500)" json:"description"`                              // 描述
	Shelf       *Shelf    `gorm:"foreignKey:ShelfID" json:"shelf,omitempty"`                         // 货架关联
	CreatedAt   time.Time `json:"created_at"`                                                        // 创建时间
}

// TableName 指定表名
func (ShelfRow) TableName() string {
	return "shelf_rows"
}
