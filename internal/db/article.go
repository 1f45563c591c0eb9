package db

import (
	"time"

	"gorm.io/gorm"
)

// 文章状态
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// DefaultCategory 是未指定栏目时的默认值
const DefaultCategory = "news"

// Article 定义了文章模型。AuthorID 是对 User 的弱引用：
// 删除账号不会级联删除其文章。
type Article struct {
	gorm.Model
	Title         string     `gorm:"not null" json:"title"`
	Slug          string     `gorm:"uniqueIndex" json:"slug"`
	Content       string     `gorm:"type:text" json:"content"`
	Excerpt       string     `json:"excerpt"`
	FeaturedImage string     `json:"featured_image"`
	Category      string     `gorm:"default:news" json:"category"`
	Status        string     `gorm:"not null;default:draft" json:"status"`
	AuthorID      uint       `json:"author_id"`
	PublishedAt   *time.Time `json:"published_at"`
	Views         int64      `gorm:"default:0" json:"views"`
}

// ValidArticleStatus reports whether status belongs to the enumerated set.
func ValidArticleStatus(status string) bool {
	return status == ArticleStatusDraft || status == ArticleStatusPublished
}
