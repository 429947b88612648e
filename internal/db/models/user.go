package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// User is an account that can log in. Its effective permissions are the
// permissions of its role; a user without a role has none.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the display name of the user.
	Name string `gorm:"size:100;not null" json:"name"`
	// Email is the unique login name of the user.
	Email string `gorm:"unique;size:255;not null" json:"email"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255" json:"-"`
	// RoleID is the ID of the role assigned to this user, nil if none.
	RoleID *uint `gorm:"column:role_id" json:"roleId"`
	// Role is the associated role.
	Role *Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:SET NULL,OnUpdate:CASCADE" json:"role,omitempty"`
	// Person holds the optional profile data of the user.
	Person *Person `gorm:"foreignKey:UserID" json:"person,omitempty"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams) //nolint:wrapcheck
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
func (u *User) VerifyPassword(password string) bool {
	if u.Password == "" {
		return false
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
