package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// respondArticleError 将文章服务的错误映射为稳定的客户端状态码，
// 内部错误不向客户端泄漏细节。
func (a *API) respondArticleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArticleNotFound):
		respondError(c, http.StatusNotFound, "Articolo non trovato")
	case errors.Is(err, service.ErrTitleLength),
		errors.Is(err, service.ErrContentLength),
		errors.Is(err, service.ErrArticleTitleRequired),
		errors.Is(err, service.ErrArticleStatusInvalid):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.log.Error().Err(err).Msg("article operation failed")
		respondError(c, http.StatusInternalServerError, "Errore interno del server")
	}
}

func (a *API) respondAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		respondError(c, http.StatusNotFound, "Utente non trovato")
	case errors.Is(err, service.ErrDuplicateAccount):
		respondError(c, http.StatusConflict, "Username o email già esistenti")
	case errors.Is(err, service.ErrSelfDelete):
		respondError(c, http.StatusBadRequest, "Non puoi eliminare il tuo account")
	case errors.Is(err, service.ErrUsernameInvalid),
		errors.Is(err, service.ErrEmailInvalid),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrRoleInvalid),
		errors.Is(err, service.ErrStatusInvalid):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		a.log.Error().Err(err).Msg("account operation failed")
		respondError(c, http.StatusInternalServerError, "Errore interno del server")
	}
}

func (a *API) respondMediaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMediaNotFound):
		respondError(c, http.StatusNotFound, "File non trovato")
	case errors.Is(err, service.ErrPhotoDateRequired):
		respondError(c, http.StatusBadRequest, "La data della foto è obbligatoria")
	default:
		a.log.Error().Err(err).Msg("media operation failed")
		respondError(c, http.StatusInternalServerError, "Errore interno del server")
	}
}
