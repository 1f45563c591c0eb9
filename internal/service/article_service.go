package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pressroom/internal/db"
	"gorm.io/gorm"
)

var (
	ErrArticleNotFound      = errors.New("article not found")
	ErrTitleLength          = errors.New("title must be between 3 and 60 characters")
	ErrContentLength        = errors.New("content must be at least 10 characters")
	ErrArticleStatusInvalid = errors.New("article status is invalid")
	ErrArticleTitleRequired = errors.New("title and content are required")
)

const (
	minTitleLen   = 3
	maxTitleLen   = 60
	minContentLen = 10
)

// ArticleService wraps article related database operations.
type ArticleService struct {
	db *gorm.DB
}

// ArticleInput represents fields accepted when creating or updating an article.
type ArticleInput struct {
	Title         string
	Content       string
	Excerpt       string
	Category      string
	Status        string
	FeaturedImage string
	AuthorID      uint
}

// ArticleRow 是附带作者展示信息的文章行。作者可能已被删除，
// 此时 author 字段为空而不是报错。
type ArticleRow struct {
	db.Article
	AuthorName     string `json:"author_name"`
	AuthorFullName string `json:"author_full_name"`
}

// ArticleFilter describes filters for listing articles. Status is honored
// by the privileged listing only; the public listing always pins published.
type ArticleFilter struct {
	Category string
	Status   string
	Limit    int
	Offset   int
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB) *ArticleService {
	return &ArticleService{db: gdb}
}

// Create validates the input and persists a new article. The initial state
// is draft unless the caller explicitly requests immediate publication.
func (s *ArticleService) Create(input ArticleInput) (*db.Article, error) {
	title, content, err := validateArticleInput(input)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = db.ArticleStatusDraft
	}
	if !db.ValidArticleStatus(status) {
		return nil, ErrArticleStatusInvalid
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = db.DefaultCategory
	}

	article := db.Article{
		Title:         title,
		Content:       content,
		Excerpt:       strings.TrimSpace(input.Excerpt),
		Category:      category,
		Status:        status,
		FeaturedImage: strings.TrimSpace(input.FeaturedImage),
		AuthorID:      input.AuthorID,
	}

	if status == db.ArticleStatusPublished {
		now := time.Now()
		article.PublishedAt = &now
	}

	return &article, s.db.Transaction(func(tx *gorm.DB) error {
		for attempt := 0; ; attempt++ {
			slug, err := uniqueSlug(tx, title, 0)
			if err != nil {
				return err
			}
			article.Slug = slug

			err = tx.Create(&article).Error
			if err == nil {
				return nil
			}
			// 并发插入抢走了 slug：重新探测后缀再试
			if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt >= 2 {
				return err
			}
		}
	})
}

// Update applies updates to an existing article. A title change regenerates
// the slug; a draft to published transition stamps published_at. Unpublishing
// keeps the previous published_at value.
func (s *ArticleService) Update(id uint, input ArticleInput) (*db.Article, error) {
	title, content, err := validateArticleInput(input)
	if err != nil {
		return nil, err
	}

	status := strings.TrimSpace(input.Status)
	if status != "" && !db.ValidArticleStatus(status) {
		return nil, ErrArticleStatusInvalid
	}

	var existing db.Article
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	return &existing, s.db.Transaction(func(tx *gorm.DB) error {
		titleChanged := title != existing.Title

		existing.Title = title
		existing.Content = content
		existing.Excerpt = strings.TrimSpace(input.Excerpt)
		if category := strings.TrimSpace(input.Category); category != "" {
			existing.Category = category
		}
		existing.FeaturedImage = strings.TrimSpace(input.FeaturedImage)

		if status != "" && status != existing.Status {
			if status == db.ArticleStatusPublished {
				now := time.Now()
				existing.PublishedAt = &now
			}
			existing.Status = status
		}

		for attempt := 0; ; attempt++ {
			if titleChanged {
				slug, err := uniqueSlug(tx, title, existing.ID)
				if err != nil {
					return err
				}
				existing.Slug = slug
			}

			err := tx.Save(&existing).Error
			if err == nil {
				return nil
			}
			if !titleChanged || !errors.Is(err, gorm.ErrDuplicatedKey) || attempt >= 2 {
				return err
			}
		}
	})
}

// Get fetches an article by id together with author display fields.
func (s *ArticleService) Get(id uint) (*ArticleRow, error) {
	var row ArticleRow
	err := s.db.Model(&db.Article{}).
		Select("articles.*, users.username AS author_name, users.full_name AS author_full_name").
		Joins("LEFT JOIN users ON users.id = articles.author_id").
		Where("articles.id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &row, nil
}

// ListPublished returns published articles, newest publish first.
func (s *ArticleService) ListPublished(filter ArticleFilter) ([]ArticleRow, error) {
	query := s.db.Model(&db.Article{}).
		Select("articles.*, users.username AS author_name, users.full_name AS author_full_name").
		Joins("LEFT JOIN users ON users.id = articles.author_id").
		Where("articles.status = ?", db.ArticleStatusPublished).
		Order("articles.published_at desc, articles.id desc")

	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("articles.category = ?", category)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	rows := []ArticleRow{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every article regardless of status, newest created first.
func (s *ArticleService) ListAll(filter ArticleFilter) ([]ArticleRow, error) {
	query := s.db.Model(&db.Article{}).
		Select("articles.*, users.username AS author_name, users.full_name AS author_full_name").
		Joins("LEFT JOIN users ON users.id = articles.author_id").
		Order("articles.created_at desc, articles.id desc")

	if status := strings.TrimSpace(filter.Status); status != "" {
		if !db.ValidArticleStatus(status) {
			return nil, ErrArticleStatusInvalid
		}
		query = query.Where("articles.status = ?", status)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("articles.category = ?", category)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	rows := []ArticleRow{}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// IncrementViews 公开读取时累加浏览计数。
func (s *ArticleService) IncrementViews(id uint) error {
	return s.db.Model(&db.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// Delete removes an article and returns the dead row so the caller can
// clean up the featured image file.
func (s *ArticleService) Delete(id uint) (*db.Article, error) {
	var article db.Article
	if err := s.db.First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}

	// 硬删除：没有恢复路径，软删除的行会一直占用 slug 唯一索引
	if err := s.db.Unscoped().Delete(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func validateArticleInput(input ArticleInput) (title, content string, err error) {
	title = strings.TrimSpace(input.Title)
	content = strings.TrimSpace(input.Content)

	if title == "" || content == "" {
		return "", "", ErrArticleTitleRequired
	}
	if n := utf8.RuneCountInString(title); n < minTitleLen || n > maxTitleLen {
		return "", "", ErrTitleLength
	}
	if utf8.RuneCountInString(content) < minContentLen {
		return "", "", ErrContentLength
	}
	return title, content, nil
}

var (
	slugStripRe  = regexp.MustCompile(`[^a-z0-9 -]`)
	slugSpaceRe  = regexp.MustCompile(`\s+`)
	slugHyphenRe = regexp.MustCompile(`-+`)
)

// Slugify 由标题派生 slug：小写、去除非 [a-z0-9 -] 字符、
// 空白折叠为连字符、连续连字符折叠、去除首尾连字符。
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = slugSpaceRe.ReplaceAllString(slug, "-")
	slug = slugHyphenRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// uniqueSlug 在基础 slug 冲突时追加数字后缀：slug、slug-2、slug-3……
// 探测不带默认作用域：唯一索引不区分软删除的行，残留的死行同样会冲突。
func uniqueSlug(tx *gorm.DB, title string, excludeID uint) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "articolo"
	}

	candidate := base
	for i := 2; ; i++ {
		var count int64
		query := tx.Unscoped().Model(&db.Article{}).Where("slug = ?", candidate)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		if err := query.Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
