package service

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pressroom/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateAccount   = errors.New("username or email already exists")
	ErrSelfDelete         = errors.New("an account cannot delete itself")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is not active")
	ErrUsernameInvalid    = errors.New("username must be between 3 and 50 characters")
	ErrEmailInvalid       = errors.New("email is invalid")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrRoleInvalid        = errors.New("role is invalid")
	ErrStatusInvalid      = errors.New("status is invalid")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AccountService owns account records and password hashes.
type AccountService struct {
	db *gorm.DB
}

// AccountInput represents fields accepted when creating or updating an account.
// Password is mandatory on create and optional on update.
type AccountInput struct {
	Username string
	Email    string
	Password string
	Role     string
	Status   string
	FullName string
}

// NewAccountService creates an AccountService instance.
func NewAccountService(gdb *gorm.DB) *AccountService {
	return &AccountService{db: gdb}
}

// Create validates and persists a new account with a bcrypt password hash.
// 后台可分配的角色不含 super_admin，该角色只在首次引导时产生。
func (s *AccountService) Create(input AccountInput) (*db.User, error) {
	username, email, err := normalizeIdentity(input)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Password) == "" || len(input.Password) < 6 {
		return nil, ErrPasswordTooShort
	}

	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = db.RoleAuthor
	}
	if !assignableRole(role) {
		return nil, ErrRoleInvalid
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = db.StatusActive
	}
	if !db.ValidStatus(status) {
		return nil, ErrStatusInvalid
	}

	if err := s.checkDuplicate(username, email, 0); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		Status:       status,
		FullName:     strings.TrimSpace(input.FullName),
	}

	if err := s.db.Create(&user).Error; err != nil {
		// 探测与插入之间的并发竞争
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}
	return &user, nil
}

// List returns every account, newest first. Password hashes stay out of
// the JSON encoding via the model tag.
func (s *AccountService) List() ([]db.User, error) {
	var users []db.User
	if err := s.db.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches an account by id.
func (s *AccountService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update modifies an existing account. An empty password leaves the hash
// untouched.
func (s *AccountService) Update(id uint, input AccountInput) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	username, email, err := normalizeIdentity(input)
	if err != nil {
		return nil, err
	}

	if err := s.checkDuplicate(username, email, user.ID); err != nil {
		return nil, err
	}

	if role := strings.TrimSpace(input.Role); role != "" && role != user.Role {
		if !assignableRole(role) {
			return nil, ErrRoleInvalid
		}
		user.Role = role
	}

	if status := strings.TrimSpace(input.Status); status != "" {
		if !db.ValidStatus(status) {
			return nil, ErrStatusInvalid
		}
		user.Status = status
	}

	if password := strings.TrimSpace(input.Password); password != "" {
		if len(password) < 6 {
			return nil, ErrPasswordTooShort
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	user.Username = username
	user.Email = email
	user.FullName = strings.TrimSpace(input.FullName)

	if err := s.db.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes an account. 任何角色都不能删除自己的账号。
// 硬删除：软删除的行会一直占用 username/email 唯一索引，
// 导致同名账号无法重建。
func (s *AccountService) Delete(actorID, targetID uint) error {
	if actorID == targetID {
		return ErrSelfDelete
	}

	var user db.User
	if err := s.db.First(&user, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	return s.db.Unscoped().Delete(&user).Error
}

// Authenticate verifies a username/password pair against the stored hash.
// Inactive accounts cannot log in; a successful login stamps last_login.
func (s *AccountService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Status != db.StatusActive {
		return nil, ErrAccountInactive
	}

	now := time.Now()
	if err := s.db.Model(&user).UpdateColumn("last_login", now).Error; err != nil {
		return nil, err
	}
	user.LastLogin = &now

	return &user, nil
}

// checkDuplicate 不带默认作用域探测：唯一索引不区分软删除的行。
func (s *AccountService) checkDuplicate(username, email string, excludeID uint) error {
	query := s.db.Unscoped().Model(&db.User{}).Where("username = ? OR email = ?", username, email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateAccount
	}
	return nil
}

func normalizeIdentity(input AccountInput) (username, email string, err error) {
	username = strings.ToLower(strings.TrimSpace(input.Username))
	email = strings.ToLower(strings.TrimSpace(input.Email))

	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return "", "", ErrUsernameInvalid
	}
	if !emailRe.MatchString(email) {
		return "", "", ErrEmailInvalid
	}
	return username, email, nil
}

// assignableRole 后台创建/修改账号时允许的角色集合。
func assignableRole(role string) bool {
	switch role {
	case db.RoleAuthor, db.RoleEditor, db.RoleAdmin:
		return true
	}
	return false
}
