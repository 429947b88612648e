package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/db/controller/user"
	"github.com/applytrack/applytrack/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// Authenticate authenticates a user by email and password against the local database.
func (p *LocalProvider) Authenticate(db *gorm.DB, email, password string) (*models.User, error) {
	if db == nil {
		db = p.db
	}

	u, err := user.FindByEmail(db, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !u.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
