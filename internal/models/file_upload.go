package models

import (
	"time"
)

// FileUpload 快照导入记录，每个入库的表格文件一条
type FileUpload struct {
	ID             uint      `gorm:"primarykey" json:"id"`                                              // 主键
	Filename       string    `gorm:"type:varchar(200);uniqueIndex;not null" json:"filename"`            // 快照文件名，全局唯一
	StylesCount    int       `gorm:"default:0" json:"styles_count"`                                     // 本次导入涉及的款式数
	ItemsCount     int       `gorm:"default:0" json:"items_count"`                                      // 本次导入写入的单品数
	ImagesUploaded int       `gorm:"default:0" json:"images_uploaded"`                                  // 成功落盘的图片数
	ImagesSkipped  int       `gorm:"default:0" json:"images_skipped"`                                   // 跳过的图片数
	Status         string    `gorm:"type:varchar(50);not null;default:'processing';index" json:"status"` // 导入状态
	UploadedAt     time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`                           // 上传时间
}

// TableName 指定表名
func (FileUpload) TableName() string {
	return "file_uploads"
}
