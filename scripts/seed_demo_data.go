package main

import (
	"fmt"
	"log"
	"time"

	"github.com/pressroom/internal/config"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器：每个角色一个账号，外加几篇示例文章。
func main() {
	cfg := config.Load()
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	if err := db.SeedCategories(gdb); err != nil {
		log.Fatal("默认栏目写入失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	accounts := []struct {
		username string
		email    string
		role     string
		fullName string
	}{
		{"mario.autore", "mario@pressroom.local", db.RoleAuthor, "Mario Rossi"},
		{"giulia.editor", "giulia@pressroom.local", db.RoleEditor, "Giulia Bianchi"},
		{"carla.admin", "carla@pressroom.local", db.RoleAdmin, "Carla Verdi"},
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	var authorID uint
	for _, account := range accounts {
		user := db.User{
			Username:     account.username,
			Email:        account.email,
			PasswordHash: string(hashed),
			Role:         account.role,
			Status:       db.StatusActive,
			FullName:     account.fullName,
		}
		if err := gdb.Where("username = ?", account.username).FirstOrCreate(&user).Error; err != nil {
			log.Fatal("创建账号失败:", err)
		}
		if account.role == db.RoleAuthor {
			authorID = user.ID
		}
	}

	articles := service.NewArticleService(gdb)
	titles := []struct {
		title    string
		category string
		publish  bool
	}{
		{"Benvenuti nella redazione", "news", true},
		{"Bilancio comunale in discussione", "politica", true},
		{"Bozza in lavorazione", "news", false},
	}

	for _, item := range titles {
		status := db.ArticleStatusDraft
		if item.publish {
			status = db.ArticleStatusPublished
		}
		if _, err := articles.Create(service.ArticleInput{
			Title:    item.title,
			Content:  fmt.Sprintf("Contenuto dimostrativo per «%s», generato il %s.", item.title, time.Now().Format("2006-01-02")),
			Category: item.category,
			Status:   status,
			AuthorID: authorID,
		}); err != nil {
			log.Fatal("创建文章失败:", err)
		}
	}

	fmt.Println("演示数据生成完成！")
	fmt.Println("账号: mario.autore / giulia.editor / carla.admin（密码均为 demo123）")
}
