package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/handler"
	"github.com/rs/zerolog"
)

// SetupRouter 配置 Gin 引擎和路由。
func SetupRouter(api *handler.API, uploadDir, uploadURLPath string, log zerolog.Logger) *gin.Engine {
	r := gin.New()

	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))
	r.Use(corsMiddleware())

	// 上传内容的静态文件服务
	r.Static(uploadURLPath, uploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/login", api.Login)
		apiGroup.POST("/logout", api.Logout)
		apiGroup.GET("/verify", api.AuthRequired(), api.Verify)

		// 公开读取
		apiGroup.GET("/articles", api.ListArticles)
		apiGroup.GET("/articles/:id", api.GetArticle)
		apiGroup.GET("/media", api.ListMedia)
		apiGroup.GET("/categories", api.ListCategories)

		// 需要认证的路由：先验令牌、再查授权策略、最后执行
		authGroup := apiGroup.Group("")
		authGroup.Use(api.AuthRequired())
		{
			authGroup.GET("/articles/all", api.ListAllArticles)
			authGroup.POST("/articles", api.RequireAction(auth.ActionArticleCreate), api.CreateArticle)
			authGroup.PUT("/articles/:id", api.RequireAction(auth.ActionArticleUpdate), api.UpdateArticle)
			authGroup.DELETE("/articles/:id", api.RequireAction(auth.ActionArticleDelete), api.DeleteArticle)

			authGroup.GET("/users", api.RequireAction(auth.ActionUserList), api.ListUsers)
			authGroup.POST("/users", api.RequireAction(auth.ActionUserCreate), api.CreateUser)
			authGroup.PUT("/users/:id", api.RequireAction(auth.ActionUserUpdate), api.UpdateUser)
			authGroup.DELETE("/users/:id", api.RequireAction(auth.ActionUserDelete), api.DeleteUser)

			authGroup.POST("/media", api.RequireAction(auth.ActionMediaUpload), api.UploadMedia)
			authGroup.PUT("/media/:id", api.RequireAction(auth.ActionMediaUpdate), api.UpdateMedia)
			authGroup.DELETE("/media/:id", api.RequireAction(auth.ActionMediaDelete), api.DeleteMedia)

			authGroup.GET("/dashboard/stats", api.DashboardStats)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint non trovato"})
	})

	return r
}

// recoveryMiddleware handles panics.
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Errore interno del server"})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests.
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
