package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/config"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/handler"
	"github.com/pressroom/internal/logger"
	"github.com/pressroom/internal/router"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// 幂等的首次运行引导：默认栏目与超级管理员
	if err := db.SeedCategories(gdb); err != nil {
		log.Fatal().Err(err).Msg("failed to seed categories")
	}
	if err := db.EnsureSuperAdmin(gdb, cfg.SuperAdminUsername, cfg.SuperAdminEmail, cfg.SuperAdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap super admin")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	api := handler.NewAPI(gdb, tokens, cfg.UploadDir, cfg.UploadURLPath, log)

	r := router.SetupRouter(api, cfg.UploadDir, cfg.UploadURLPath, log)

	log.Info().Str("addr", cfg.ListenAddr).Msg("server starting")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to run server")
	}
}
