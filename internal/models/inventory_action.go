package models

import (
	"time"
)

// InventoryAction 库存操作流水
type InventoryAction struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                 // 主键
	ItemID     string    `gorm:"type:varchar(120);not null;index" json:"item_id"`      // 关联单品
	Style      string    `gorm:"type:varchar(10);not null;index" json:"style"`         // 款式基码
	Color      string    `gorm:"type:varchar(100);not null" json:"color"`              // 颜色
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`              // 操作类型
	Location   string    `gorm:"type:varchar(200)" json:"location"`                    // 操作时的位置描述
	Notes      string    `gorm:"type:varchar(500)" json:"notes"`                       // 备注
	Operator   string    `gorm:"type:varchar(100);not null" json:"operator"`           // 操作人
	SourceFile string    `gorm:"type:varchar(200);index" json:"source_file"`           // 关联的快照文件名
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                              // 操作时间
}

// TableName 指定表名
func (InventoryAction) TableName() string {
	return "inventory_actions"
}
