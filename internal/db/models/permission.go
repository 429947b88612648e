package models

import "time"

// Permission is a named capability a role can grant, e.g. "Create" or "Delete".
// Permissions are reference data: they are seeded and never changed through the API.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint `gorm:"primaryKey" json:"id"`
	// Name is the unique action name checked by the authorization gate.
	Name string `gorm:"unique;size:100;not null" json:"name"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255" json:"description,omitempty"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}
