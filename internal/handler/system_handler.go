package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/db"
)

// DashboardStats 返回后台面板的聚合计数。
func (a *API) DashboardStats(c *gin.Context) {
	var userCount, articleCount, publishedCount, mediaCount int64

	if err := a.db.Model(&db.User{}).Count(&userCount).Error; err != nil {
		a.log.Error().Err(err).Msg("dashboard stats failed")
		respondError(c, http.StatusInternalServerError, "Errore interno del server")
		return
	}
	if err := a.db.Model(&db.Article{}).Count(&articleCount).Error; err != nil {
		a.log.Error().Err(err).Msg("dashboard stats failed")
		respondError(c, http.StatusInternalServerError, "Errore interno del server")
		return
	}
	if err := a.db.Model(&db.Article{}).
		Where("status = ?", db.ArticleStatusPublished).
		Count(&publishedCount).Error; err != nil {
		a.log.Error().Err(err).Msg("dashboard stats failed")
		respondError(c, http.StatusInternalServerError, "Errore interno del server")
		return
	}
	if err := a.db.Model(&db.Media{}).Count(&mediaCount).Error; err != nil {
		a.log.Error().Err(err).Msg("dashboard stats failed")
		respondError(c, http.StatusInternalServerError, "Errore interno del server")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":     userCount,
		"articles":  articleCount,
		"published": publishedCount,
		"media":     mediaCount,
	})
}
