package auth

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/config"
	"github.com/applytrack/applytrack/internal/db/controller/user"
	"github.com/applytrack/applytrack/internal/db/models"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db    *gorm.DB
	jwt   config.JWT
	local *LocalProvider
	now   func() time.Time
}

// Session is the result of a successful login.
type Session struct {
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Permissions []string  `json:"permissions"`
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, cfg config.JWT) *Service {
	if cfg.ExpiryTime <= 0 {
		cfg.ExpiryTime = config.DefaultTokenExpiry
	}

	return &Service{
		db:    db,
		jwt:   cfg,
		local: NewLocalProvider(db),
		now:   time.Now,
	}
}

// Login checks the credentials and issues a token together with the user's permission names.
func (s *Service) Login(db *gorm.DB, email, password string) (*Session, error) {
	u, err := s.local.Authenticate(db, email, password)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.IssueToken(u.ID)
	if err != nil {
		return nil, err
	}

	perms, err := s.UserPermissions(db, u.ID)
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpiresAt: exp, Permissions: perms}, nil
}

// Principal loads the user behind a token with its role and permissions.
func (s *Service) Principal(db *gorm.DB, userID uint) (*models.User, error) {
	if db == nil {
		db = s.db
	}

	return user.Principal(db, userID)
}

// UserPermissions retrieves the names of all permissions granted to the user through its role.
func (s *Service) UserPermissions(db *gorm.DB, userID uint) ([]string, error) {
	if db == nil {
		db = s.db
	}

	permissions := make([]string, 0)

	err := db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id AND roles.deleted_at IS NULL").
		Joins("JOIN users ON users.role_id = roles.id").
		Where("users.id = ?", userID).
		Order("permissions.id ASC").
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}
