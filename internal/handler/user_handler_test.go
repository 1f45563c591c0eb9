package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pressroom/internal/auth"
	"github.com/pressroom/internal/db"
)

func userRoutes(api *API) *gin.Engine {
	r := gin.New()
	group := r.Group("/api", api.AuthRequired())
	group.GET("/users", api.RequireAction(auth.ActionUserList), api.ListUsers)
	group.POST("/users", api.RequireAction(auth.ActionUserCreate), api.CreateUser)
	group.PUT("/users/:id", api.RequireAction(auth.ActionUserUpdate), api.UpdateUser)
	group.DELETE("/users/:id", api.RequireAction(auth.ActionUserDelete), api.DeleteUser)
	return r
}

func TestUserRoutesRequireAdminRole(t *testing.T) {
	api, gdb := setupTestAPI(t)
	author := seedAccount(t, gdb, "bob", db.RoleAuthor)
	editor := seedAccount(t, gdb, "elena", db.RoleEditor)
	admin := seedAccount(t, gdb, "carla", db.RoleAdmin)

	r := userRoutes(api)

	for _, tc := range []struct {
		name string
		user *db.User
		want int
	}{
		{"author forbidden", author, http.StatusForbidden},
		{"editor forbidden", editor, http.StatusForbidden},
		{"admin allowed", admin, http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			req.Header.Set("Authorization", "Bearer "+issueToken(t, api, tc.user))
			r.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestCreateUserValidatesAndHidesHash(t *testing.T) {
	api, gdb := setupTestAPI(t)
	admin := seedAccount(t, gdb, "carla", db.RoleAdmin)

	r := userRoutes(api)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/api/users", map[string]string{
		"username": "nuovo.autore",
		"email":    "nuovo@pressroom.local",
		"password": "secret123",
		"role":     db.RoleAuthor,
	})
	req.Header.Set("Authorization", "Bearer "+issueToken(t, api, admin))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeResponse(t, w)
	user, _ := body["user"].(map[string]any)
	if user["username"] != "nuovo.autore" {
		t.Fatalf("unexpected user payload: %v", body)
	}
	for _, field := range []string{"password", "password_hash", "PasswordHash"} {
		if _, exposed := user[field]; exposed {
			t.Fatalf("field %s must not be serialized", field)
		}
	}
}

func TestCreateUserDuplicateConflict(t *testing.T) {
	api, gdb := setupTestAPI(t)
	admin := seedAccount(t, gdb, "carla", db.RoleAdmin)
	seedAccount(t, gdb, "bob", db.RoleAuthor)

	r := userRoutes(api)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/api/users", map[string]string{
		"username": "bob",
		"email":    "altro@pressroom.local",
		"password": "secret123",
	})
	req.Header.Set("Authorization", "Bearer "+issueToken(t, api, admin))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateUserCannotAssignSuperAdmin(t *testing.T) {
	api, gdb := setupTestAPI(t)
	admin := seedAccount(t, gdb, "carla", db.RoleAdmin)

	r := userRoutes(api)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/api/users", map[string]string{
		"username": "usurpatore",
		"email":    "usurpatore@pressroom.local",
		"password": "secret123",
		"role":     db.RoleSuperAdmin,
	})
	req.Header.Set("Authorization", "Bearer "+issueToken(t, api, admin))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteUserOnlySuperAdmin(t *testing.T) {
	api, gdb := setupTestAPI(t)
	admin := seedAccount(t, gdb, "carla", db.RoleAdmin)
	superAdmin := seedAccount(t, gdb, "root", db.RoleSuperAdmin)
	target := seedAccount(t, gdb, "bob", db.RoleAuthor)

	r := userRoutes(api)
	path := "/api/users/" + strconv.Itoa(int(target.ID))

	// admin 没有删除账号的权限
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, api, admin))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for admin, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, path, nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, api, superAdmin))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 for super_admin, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	gdb.Model(&db.User{}).Where("username = ?", "bob").Count(&count)
	if count != 0 {
		t.Fatal("target account should be deleted")
	}
}

func TestDeleteUserSelfRejected(t *testing.T) {
	api, gdb := setupTestAPI(t)
	superAdmin := seedAccount(t, gdb, "root", db.RoleSuperAdmin)

	r := userRoutes(api)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/users/"+strconv.Itoa(int(superAdmin.ID)), nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, api, superAdmin))
	r.ServeHTTP(w, req)

	// 自删除对任何角色都拒绝，包括 super_admin
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateUserEmptyPasswordKeepsHash(t *testing.T) {
	api, gdb := setupTestAPI(t)
	admin := seedAccount(t, gdb, "carla", db.RoleAdmin)
	target := seedAccount(t, gdb, "bob", db.RoleAuthor)
	originalHash := target.PasswordHash

	r := userRoutes(api)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPut, "/api/users/"+strconv.Itoa(int(target.ID)), map[string]string{
		"username":  "bob",
		"email":     "bob@pressroom.local",
		"full_name": "Roberto Rossi",
	})
	req.Header.Set("Authorization", "Bearer "+issueToken(t, api, admin))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated db.User
	if err := gdb.First(&updated, target.ID).Error; err != nil {
		t.Fatalf("load updated user: %v", err)
	}
	if updated.PasswordHash != originalHash {
		t.Fatal("empty password must not change the stored hash")
	}
	if updated.FullName != "Roberto Rossi" {
		t.Fatalf("full name not updated: %q", updated.FullName)
	}
}
