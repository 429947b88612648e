package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is a named bundle of permissions assigned to users.
// The permission set is stored in the role_permissions join table, see RolePermission.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name of the role (e.g., "Admin"). Uniqueness is checked before create and edit,
	// the column itself is only indexed so soft deleted names can be reused.
	Name string `gorm:"index;size:100;not null" json:"name"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255" json:"description"`
	// Permissions granted by this role.
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
	// DeletedAt is the soft delete timestamp (managed by GORM).
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// HasPermission reports whether the role grants the permission called name.
func (r *Role) HasPermission(name string) bool {
	if r == nil {
		return false
	}

	for _, p := range r.Permissions {
		if p.Name == name {
			return true
		}
	}

	return false
}

// PermissionNames returns the names of the role's permissions.
func (r *Role) PermissionNames() []string {
	if r == nil {
		return []string{}
	}

	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}

	return names
}
