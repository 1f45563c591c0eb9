package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/service"
)

type userRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	FullName string `json:"full_name"`
}

// ListUsers 账号列表，仅 admin/super_admin 可见。
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.accounts.List()
	if err != nil {
		a.respondAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// CreateUser 创建账号。super_admin 角色不可在此分配。
func (a *API) CreateUser(c *gin.Context) {
	var req userRequest
	if !bindJSON(c, &req, "Corpo della richiesta non valido") {
		return
	}

	user, err := a.accounts.Create(service.AccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
		FullName: req.FullName,
	})
	if err != nil {
		a.respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser 修改账号资料，密码留空则不变。
func (a *API) UpdateUser(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID utente non valido")
		return
	}

	var req userRequest
	if !bindJSON(c, &req, "Corpo della richiesta non valido") {
		return
	}

	user, err := a.accounts.Update(id, service.AccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
		FullName: req.FullName,
	})
	if err != nil {
		a.respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser 删除账号：任何账号都不能删除自己。
func (a *API) DeleteUser(c *gin.Context) {
	claims := claimsFrom(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "Autenticazione richiesta")
		return
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "ID utente non valido")
		return
	}

	if err := a.accounts.Delete(claims.UserID, id); err != nil {
		a.respondAccountError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Utente eliminato con successo"})
}
