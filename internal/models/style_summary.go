package models

import (
	"time"
)

// StyleSummary 款式汇总表，每个款式基码一条记录
type StyleSummary struct {
	Style       string      `gorm:"type:varchar(10);primarykey" json:"style"` // 补零后的款式基码
	AllColors   StringArray `gorm:"type:json;not null" json:"all_colors"`     // 当前存在的全部颜色，排序去重
	Division    string      `gorm:"type:varchar(100)" json:"division"`        // 品类，取最近一次写入
	Outsole     string      `gorm:"type:varchar(100)" json:"outsole"`         // 鞋底
	Gender      string      `gorm:"type:varchar(50)" json:"gender"`           // 性别
	SourceFiles StringArray `gorm:"type:json;not null" json:"source_files"`   // 来源快照文件名集合
	ColorCount  int         `gorm:"not null" json:"color_count"`              // 颜色数量，始终按颜色列表重算
	CreatedAt   time.Time   `json:"created_at"`                               // 创建时间
	UpdatedAt   time.Time   `json:"updated_at"`                               // 更新时间
}

// TableName 指定表名
func (StyleSummary) TableName() string {
	return "style_summary"
}
