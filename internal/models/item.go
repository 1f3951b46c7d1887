package models

import (
	"time"
)

// Item 单品表，每个款式+颜色（含宽版后缀）一条记录
type Item struct {
	ID          string      `gorm:"type:varchar(120);primarykey" json:"id"`                      // 规范主键：{款式基码}_{颜色}
	Style       string      `gorm:"type:varchar(10);not null;index:idx_items_style" json:"style"` // 补零后的款式基码
	Color       string      `gorm:"type:varchar(100);not null" json:"color"`                     // 规范颜色，可能携带 (w)/(ww) 后缀
	Division    string      `gorm:"type:varchar(100)" json:"division"`                           // 品类
	Outsole     string      `gorm:"type:varchar(100)" json:"outsole"`                            // 鞋底
	Gender      string      `gorm:"type:varchar(50)" json:"gender"`                              // 性别
	ImageURL    string      `gorm:"type:varchar(500)" json:"image_url"`                          // 图片路径
	SourceFiles StringArray `gorm:"type:json;not null" json:"source_files"`                      // 来源快照文件名集合
	Status      string      `gorm:"type:varchar(50);not null;default:'pending';index" json:"status"` // 生命周期状态
	RowID       *uint       `gorm:"index" json:"row_id"`                                         // 所在货架层，可为空
	Row         *ShelfRow   `gorm:"foreignKey:RowID" json:"row,omitempty"`                       // 货架层关联
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`                                     // 创建时间
	UpdatedAt   time.Time   `json:"updated_at"`                                                  // 更新时间
}

// TableName 指定表名
func (Item) TableName() string {
	return "items"
}
