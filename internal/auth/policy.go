package auth

import (
	"slices"

	"github.com/pressroom/internal/db"
)

// Action 标识一次需要授权的操作。
type Action string

const (
	ActionArticleCreate Action = "article:create"
	ActionArticleUpdate Action = "article:update"
	ActionArticleDelete Action = "article:delete"
	ActionUserList      Action = "user:list"
	ActionUserCreate    Action = "user:create"
	ActionUserUpdate    Action = "user:update"
	ActionUserDelete    Action = "user:delete"
	ActionMediaUpload   Action = "media:upload"
	ActionMediaUpdate   Action = "media:update"
	ActionMediaDelete   Action = "media:delete"
)

// allowLists 是每个操作允许的角色集合。super_admin 不在表内：
// 它绕过所有按角色的检查。
var allowLists = map[Action][]string{
	ActionArticleCreate: {db.RoleAuthor, db.RoleEditor, db.RoleAdmin},
	ActionArticleUpdate: {db.RoleAuthor, db.RoleEditor, db.RoleAdmin},
	ActionArticleDelete: {db.RoleAuthor, db.RoleEditor, db.RoleAdmin},
	ActionUserList:      {db.RoleAdmin},
	ActionUserCreate:    {db.RoleAdmin},
	ActionUserUpdate:    {db.RoleAdmin},
	ActionUserDelete:    {},
	ActionMediaUpload:   {db.RoleAuthor, db.RoleEditor, db.RoleAdmin},
	ActionMediaUpdate:   {db.RoleAuthor, db.RoleEditor, db.RoleAdmin},
	ActionMediaDelete:   {db.RoleAuthor, db.RoleEditor, db.RoleAdmin},
}

// CanPerform 按角色许可表判定操作是否被允许。
func CanPerform(claims *Claims, action Action) bool {
	if claims == nil {
		return false
	}
	if claims.Role == db.RoleSuperAdmin {
		return true
	}
	return slices.Contains(allowLists[action], claims.Role)
}

// CanModifyArticle 判定对单篇文章的修改/删除权限：
// 作者本人，或 editor/admin/super_admin。
func CanModifyArticle(claims *Claims, authorID uint) bool {
	if claims == nil {
		return false
	}
	switch claims.Role {
	case db.RoleSuperAdmin, db.RoleAdmin, db.RoleEditor:
		return true
	}
	return claims.UserID == authorID
}
