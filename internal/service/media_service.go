package service

import (
	"errors"
	"os"
	"time"

	"github.com/pressroom/internal/db"
	"gorm.io/gorm"
)

var (
	ErrMediaNotFound     = errors.New("media not found")
	ErrPhotoDateRequired = errors.New("photo date is required")
)

// MediaService 负责媒体元数据。磁盘文件与数据库记录必须同生共死：
// 删除先移除文件（容忍文件已不存在），再删除记录。
type MediaService struct {
	db *gorm.DB
}

// MediaMetadata represents caller supplied companion fields.
type MediaMetadata struct {
	Title       string
	Description string
	PhotoDate   time.Time
}

// MediaRow 是附带上传者用户名的媒体行。
type MediaRow struct {
	db.Media
	UploadedByName string `json:"uploaded_by_name"`
}

// NewMediaService creates a MediaService instance.
func NewMediaService(gdb *gorm.DB) *MediaService {
	return &MediaService{db: gdb}
}

// Create persists a media record. The caller has already written the file
// to disk and must remove it again if this insert fails.
func (s *MediaService) Create(record *db.Media) error {
	if record.PhotoDate.IsZero() {
		return ErrPhotoDateRequired
	}
	return s.db.Create(record).Error
}

// List returns media rows ordered by photo date, newest first.
func (s *MediaService) List(limit int) ([]MediaRow, error) {
	query := s.db.Model(&db.Media{}).
		Select("media.*, users.username AS uploaded_by_name").
		Joins("LEFT JOIN users ON users.id = media.uploaded_by").
		Order("media.photo_date desc, media.created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	rows := []MediaRow{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Get fetches a media record by id.
func (s *MediaService) Get(id uint) (*db.Media, error) {
	var record db.Media
	if err := s.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Update modifies metadata only; the stored file is untouched.
func (s *MediaService) Update(id uint, meta MediaMetadata) (*db.Media, error) {
	if meta.PhotoDate.IsZero() {
		return nil, ErrPhotoDateRequired
	}

	var record db.Media
	if err := s.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}

	record.Title = meta.Title
	record.Description = meta.Description
	record.PhotoDate = meta.PhotoDate

	if err := s.db.Save(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes the physical file first, then the database row.
// 文件已不存在时视为成功，继续删除记录。记录走硬删除：
// 文件已经没了，留着软删除的行只会悬空。
func (s *MediaService) Delete(id uint) error {
	var record db.Media
	if err := s.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMediaNotFound
		}
		return err
	}

	if record.Path != "" {
		if err := os.Remove(record.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return s.db.Unscoped().Delete(&record).Error
}
