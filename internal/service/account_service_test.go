package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pressroom/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAccountServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:account-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func validAccountInput(username string) AccountInput {
	return AccountInput{
		Username: username,
		Email:    username + "@pressroom.local",
		Password: "secret123",
		Role:     db.RoleAuthor,
		FullName: "Nome Cognome",
	}
}

func TestAccountService_CreateHashesPassword(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	user, err := svc.Create(validAccountInput("bob"))
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if user.PasswordHash == "secret123" {
		t.Fatal("password must not be stored in clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != db.RoleAuthor {
		t.Fatalf("expected author role, got %q", user.Role)
	}
	if user.Status != db.StatusActive {
		t.Fatalf("expected active status, got %q", user.Status)
	}
}

func TestAccountService_CreateNormalizesIdentity(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	input := validAccountInput("bob")
	input.Username = "  BOB  "
	input.Email = "Bob@Pressroom.LOCAL"

	user, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if user.Username != "bob" {
		t.Fatalf("expected lowercased username, got %q", user.Username)
	}
	if user.Email != "bob@pressroom.local" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
}

func TestAccountService_CreateValidation(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	cases := []struct {
		name    string
		mutate  func(*AccountInput)
		wantErr error
	}{
		{"short username", func(i *AccountInput) { i.Username = "ab" }, ErrUsernameInvalid},
		{"bad email", func(i *AccountInput) { i.Email = "not-an-email" }, ErrEmailInvalid},
		{"short password", func(i *AccountInput) { i.Password = "12345" }, ErrPasswordTooShort},
		{"unknown role", func(i *AccountInput) { i.Role = "overlord" }, ErrRoleInvalid},
		{"super admin not assignable", func(i *AccountInput) { i.Role = db.RoleSuperAdmin }, ErrRoleInvalid},
		{"bad status", func(i *AccountInput) { i.Status = "frozen" }, ErrStatusInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validAccountInput("candidate")
			tc.mutate(&input)
			if _, err := svc.Create(input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAccountService_DuplicateUsernameOrEmail(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	if _, err := svc.Create(validAccountInput("bob")); err != nil {
		t.Fatalf("create first account: %v", err)
	}

	dupUsername := validAccountInput("bob")
	dupUsername.Email = "other@pressroom.local"
	if _, err := svc.Create(dupUsername); !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount for username, got %v", err)
	}

	dupEmail := validAccountInput("roberto")
	dupEmail.Email = "bob@pressroom.local"
	if _, err := svc.Create(dupEmail); !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount for email, got %v", err)
	}
}

func TestAccountService_UpdateKeepsPasswordWhenEmpty(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	user, err := svc.Create(validAccountInput("bob"))
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	originalHash := user.PasswordHash

	input := validAccountInput("bob")
	input.Password = ""
	input.FullName = "Roberto Rossi"
	updated, err := svc.Update(user.ID, input)
	if err != nil {
		t.Fatalf("update account: %v", err)
	}
	if updated.PasswordHash != originalHash {
		t.Fatal("empty password must leave the hash untouched")
	}
	if updated.FullName != "Roberto Rossi" {
		t.Fatalf("full name not updated: %q", updated.FullName)
	}
}

func TestAccountService_UpdateDuplicateExcludesSelf(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	bob, err := svc.Create(validAccountInput("bob"))
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	if _, err := svc.Create(validAccountInput("carol")); err != nil {
		t.Fatalf("create carol: %v", err)
	}

	// 自己的用户名不算冲突
	if _, err := svc.Update(bob.ID, validAccountInput("bob")); err != nil {
		t.Fatalf("self update should not conflict: %v", err)
	}

	steal := validAccountInput("carol")
	if _, err := svc.Update(bob.ID, steal); !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("expected ErrDuplicateAccount, got %v", err)
	}
}

func TestAccountService_DeleteSelfForbiddenForEveryRole(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	user, err := svc.Create(validAccountInput("bob"))
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	if err := svc.Delete(user.ID, user.ID); !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
}

func TestAccountService_DeleteOther(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	bob, err := svc.Create(validAccountInput("bob"))
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}
	carol, err := svc.Create(validAccountInput("carol"))
	if err != nil {
		t.Fatalf("create carol: %v", err)
	}

	if err := svc.Delete(bob.ID, carol.ID); err != nil {
		t.Fatalf("delete carol: %v", err)
	}
	if _, err := svc.Get(carol.ID); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_DeleteFreesUsernameForReuse(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	actor, err := svc.Create(validAccountInput("carla"))
	if err != nil {
		t.Fatalf("create actor: %v", err)
	}
	bob, err := svc.Create(validAccountInput("bob"))
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	if err := svc.Delete(actor.ID, bob.ID); err != nil {
		t.Fatalf("delete bob: %v", err)
	}

	// 删除后同用户名/邮箱必须可以重建，死行不占用唯一索引
	recreated, err := svc.Create(validAccountInput("bob"))
	if err != nil {
		t.Fatalf("re-create after delete: %v", err)
	}
	if recreated.Username != "bob" {
		t.Fatalf("unexpected username %q", recreated.Username)
	}

	var total int64
	if err := gdb.Unscoped().Model(&db.User{}).Where("username = ?", "bob").Count(&total).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if total != 1 {
		t.Fatalf("deleted row must not linger, found %d rows", total)
	}
}

func TestAccountService_DeleteMissing(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	if err := svc.Delete(1, 999); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	if _, err := svc.Create(validAccountInput("bob")); err != nil {
		t.Fatalf("create account: %v", err)
	}

	user, err := svc.Authenticate("bob", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.LastLogin == nil {
		t.Fatal("successful login must stamp last_login")
	}

	if _, err := svc.Authenticate("bob", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate("nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAccountService_AuthenticateInactiveAccount(t *testing.T) {
	gdb := setupAccountServiceTestDB(t)
	svc := NewAccountService(gdb)

	input := validAccountInput("bob")
	input.Status = db.StatusInactive
	if _, err := svc.Create(input); err != nil {
		t.Fatalf("create account: %v", err)
	}

	if _, err := svc.Authenticate("bob", "secret123"); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}
