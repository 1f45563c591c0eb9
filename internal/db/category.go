package db

import (
	"errors"

	"gorm.io/gorm"
)

// Category 定义了栏目模型，只读为主，无归属语义。
type Category struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	Description string `json:"description"`
}

// 首次运行时写入的默认栏目
var defaultCategories = []Category{
	{Name: "Primo Piano", Slug: "primo-piano", Description: "Notizie di prima pagina"},
	{Name: "News", Slug: "news", Description: "Notizie generali"},
	{Name: "Politica", Slug: "politica", Description: "Notizie politiche"},
	{Name: "Economia", Slug: "economia", Description: "Notizie economiche"},
	{Name: "Ambiente", Slug: "ambiente", Description: "Notizie ambientali"},
	{Name: "In Evidenza", Slug: "in-evidenza", Description: "Contenuti in evidenza"},
}

// SeedCategories 幂等写入默认栏目，已存在的 slug 不会重复插入。
func SeedCategories(gdb *gorm.DB) error {
	for _, category := range defaultCategories {
		var existing Category
		err := gdb.Where("slug = ?", category.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record := category
		if err := gdb.Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}
