package db

import (
	"time"

	"gorm.io/gorm"
)

// Media 定义了上传文件的元数据模型。Path 与磁盘上的实体文件
// 必须同生共死：不允许出现孤儿文件或悬空记录。
type Media struct {
	gorm.Model
	Filename     string    `gorm:"not null" json:"filename"`
	OriginalName string    `gorm:"not null" json:"original_name"`
	MimeType     string    `gorm:"not null" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	Path         string    `gorm:"not null" json:"path"`
	URL          string    `gorm:"not null" json:"url"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PhotoDate    time.Time `gorm:"not null" json:"photo_date"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	UploadedBy   uint      `json:"uploaded_by"`
}
