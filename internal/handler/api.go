package handler

import (
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/service"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	tokens     *auth.TokenService
	accounts   *service.AccountService
	articles   *service.ArticleService
	media      *service.MediaService
	categories *service.CategoryService
	uploadDir  string
	uploadURL  string
	log        zerolog.Logger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, tokens *auth.TokenService, uploadDir, uploadURL string, log zerolog.Logger) *API {
	return &API{
		db:         gdb,
		tokens:     tokens,
		accounts:   service.NewAccountService(gdb),
		articles:   service.NewArticleService(gdb),
		media:      service.NewMediaService(gdb),
		categories: service.NewCategoryService(gdb),
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
		log:        log,
	}
}
