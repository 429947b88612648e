package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate registers the role_permissions join model and migrates every table.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Role{}, "Permissions", &RolePermission{}); err != nil {
		return fmt.Errorf("failed to setup role permissions join table: %w", err)
	}

	if err := db.AutoMigrate(
		&Permission{},
		&Role{},
		&RolePermission{},
		&User{},
		&Person{},
		&Contact{},
		&Application{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
