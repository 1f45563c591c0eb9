package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCategories 公开的栏目列表。
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		a.log.Error().Err(err).Msg("category listing failed")
		respondError(c, http.StatusInternalServerError, "Errore interno del server")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
