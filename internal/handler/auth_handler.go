package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/service"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 处理登录请求：校验口令、签发会话令牌。
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "Username e password sono obbligatori") {
		return
	}

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Username e password sono obbligatori")
		return
	}

	user, err := a.accounts.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "Credenziali non valide")
		case errors.Is(err, service.ErrAccountInactive):
			respondError(c, http.StatusForbidden, "Utente non attivo")
		default:
			a.log.Error().Err(err).Msg("login failed")
			respondError(c, http.StatusInternalServerError, "Errore interno del server")
		}
		return
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		a.log.Error().Err(err).Msg("token issue failed")
		respondError(c, http.StatusInternalServerError, "Errore interno del server")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"role":      user.Role,
			"full_name": user.FullName,
		},
	})
}

// Verify 返回当前令牌解码出的身份信息。
func (a *API) Verify(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Autenticazione richiesta")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"role":     claims.Role,
		},
	})
}

// Logout 无服务端状态可失效：令牌在到期前保持有效，丢弃由客户端完成。
func (a *API) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logout effettuato. Elimina il token dal client."})
}
