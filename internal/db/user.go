package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 账号角色，按权限从低到高排列
const (
	RoleAuthor     = "author"
	RoleEditor     = "editor"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// 账号状态
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User 定义了后台账号模型
type User struct {
	gorm.Model
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"not null;default:author" json:"role"`
	Status       string     `gorm:"not null;default:active" json:"status"`
	FullName     string     `json:"full_name"`
	Avatar       string     `json:"avatar"`
	LastLogin    *time.Time `json:"last_login"`
}

// ValidRole reports whether role belongs to the enumerated set.
func ValidRole(role string) bool {
	switch role {
	case RoleAuthor, RoleEditor, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// ValidStatus reports whether status belongs to the enumerated set.
func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// EnsureSuperAdmin 存在性检查：若尚无超级管理员账号则创建一个。
// password 为空时跳过创建，避免使用可猜测的默认口令。
func EnsureSuperAdmin(gdb *gorm.DB, username, email, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedEmail := strings.TrimSpace(strings.ToLower(email))
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedEmail == "" || trimmedPassword == "" {
		return nil
	}

	var existing User
	err := gdb.Where("role = ?", RoleSuperAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return gdb.Create(&User{
		Username:     trimmedUser,
		Email:        trimmedEmail,
		PasswordHash: string(hashed),
		Role:         RoleSuperAdmin,
		Status:       StatusActive,
		FullName:     "Amministratore",
	}).Error
}
