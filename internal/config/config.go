package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr         string
	Port               string
	DatabasePath       string
	GinMode            string
	JWTSecret          string
	TokenTTLHours      int
	UploadDir          string
	UploadURLPath      string
	SuperAdminUsername string
	SuperAdminEmail    string
	SuperAdminPassword string
}

const (
	defaultTokenTTLHours = 24
	minTokenTTLHours     = 2
	maxTokenTTLHours     = 24
)

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "pressroom.db"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "pressroom-dev-secret"
	}

	tokenTTL := defaultTokenTTLHours
	if raw := strings.TrimSpace(os.Getenv("TOKEN_TTL_HOURS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			tokenTTL = parsed
		}
	}
	// 令牌有效期限制在 2 到 24 小时之间
	if tokenTTL < minTokenTTLHours {
		tokenTTL = minTokenTTLHours
	}
	if tokenTTL > maxTokenTTLHours {
		tokenTTL = maxTokenTTLHours
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	uploadURLPath := strings.TrimSpace(os.Getenv("UPLOAD_URL_PATH"))
	if uploadURLPath == "" {
		uploadURLPath = "/uploads"
	}

	superAdminUsername := strings.TrimSpace(os.Getenv("SUPER_ADMIN_USERNAME"))
	if superAdminUsername == "" {
		superAdminUsername = "admin"
	}

	superAdminEmail := strings.TrimSpace(os.Getenv("SUPER_ADMIN_EMAIL"))
	if superAdminEmail == "" {
		superAdminEmail = "admin@pressroom.local"
	}

	superAdminPassword := strings.TrimSpace(os.Getenv("SUPER_ADMIN_PASSWORD"))

	return AppConfig{
		ListenAddr:         listenAddr,
		Port:               port,
		DatabasePath:       databasePath,
		GinMode:            ginMode,
		JWTSecret:          jwtSecret,
		TokenTTLHours:      tokenTTL,
		UploadDir:          uploadDir,
		UploadURLPath:      uploadURLPath,
		SuperAdminUsername: superAdminUsername,
		SuperAdminEmail:    superAdminEmail,
		SuperAdminPassword: superAdminPassword,
	}
}
