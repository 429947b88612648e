// Package role provides CRUD operations for roles and reconciles their permission sets.
package role

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/applytrack/applytrack/internal/db/controller/listing"
	"github.com/applytrack/applytrack/internal/db/controller/permission"
	"github.com/applytrack/applytrack/internal/db/models"
)

const permissionsAssoc = "Permissions"

var (
	// ErrRoleNotFound is returned when a role is not found.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameEmpty is returned when a role is created or renamed with an empty name.
	ErrRoleNameEmpty = errors.New("role name cannot be empty")
	// ErrRoleNameInUse is returned when another role already carries the name.
	ErrRoleNameInUse = errors.New("role name is already in use")
	// ErrRoleHasPermissions is returned when deleting a role that still holds permissions.
	ErrRoleHasPermissions = errors.New("role cannot be deleted because it has associated permissions")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Find retrieves a role by its ID together with its permissions.
func Find(db *gorm.DB, id uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var role models.Role
	err := db.Preload(permissionsAssoc, func(tx *gorm.DB) *gorm.DB {
		return tx.Order("permissions.id ASC")
	}).First(&role, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}

		return nil, err
	}

	return &role, nil
}

// All lists roles with their permissions. A non-empty name filters with LIKE.
func All(db *gorm.DB, page listing.Page, name string) (*listing.Result[models.Role], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	scope := func(tx *gorm.DB) *gorm.DB {
		if name == "" {
			return tx
		}

		return tx.Where("name LIKE ?", listing.Like(name))
	}

	return listing.Find[models.Role](db, page, scope, permissionsAssoc)
}

// Create stores a new role and grants it the known permissions among permissionIDs.
func Create(db *gorm.DB, name, description string, permissionIDs []uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	var id uint

	err := db.Transaction(func(tx *gorm.DB) error {
		inUse, err := nameInUse(tx, name, 0)
		if err != nil {
			return err
		}

		if inUse {
			return ErrRoleNameInUse
		}

		role := models.Role{Name: name, Description: description}
		if err := tx.Omit(clause.Associations).Create(&role).Error; err != nil {
			return fmt.Errorf("failed to create role: %w", err)
		}

		id = role.ID

		return grant(tx, role.ID, permissionIDs, nil)
	})
	if err != nil {
		return nil, err
	}

	return Find(db, id)
}

// Edit changes name and description of a role. Renaming onto the name of
// another role fails with ErrRoleNameInUse.
func Edit(db *gorm.DB, id uint, name, description string) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrRoleNameEmpty
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var role models.Role
		if err := tx.First(&role, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotFound
			}

			return err
		}

		if role.Name != name {
			inUse, err := nameInUse(tx, name, role.ID)
			if err != nil {
				return err
			}

			if inUse {
				return ErrRoleNameInUse
			}
		}

		return tx.Model(&role).Updates(map[string]any{
			"name":        name,
			"description": description,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return Find(db, id)
}

// AssignAdditional adds the permissions in permissionIDs to the role, keeping
// those it already has. Ids that are not in the catalog are dropped.
func AssignAdditional(db *gorm.DB, id uint, permissionIDs []uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		role, err := Find(tx, id)
		if err != nil {
			return err
		}

		held := make(map[uint]struct{}, len(role.Permissions))
		for _, p := range role.Permissions {
			held[p.ID] = struct{}{}
		}

		return grant(tx, role.ID, permissionIDs, held)
	})
	if err != nil {
		return nil, err
	}

	return Find(db, id)
}

// ReplacePermissions makes the role's permission set exactly the known
// permissions among permissionIDs. An empty list clears the set.
func ReplacePermissions(db *gorm.DB, id uint, permissionIDs []uint) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		role, err := Find(tx, id)
		if err != nil {
			return err
		}

		perms, err := permission.FindByIDs(tx, permissionIDs)
		if err != nil {
			return fmt.Errorf("failed to resolve permissions: %w", err)
		}

		keep := make([]uint, 0, len(perms))
		for _, p := range perms {
			keep = append(keep, p.ID)
		}

		drop := tx.Where("role_id = ?", role.ID)
		if len(keep) > 0 {
			drop = drop.Where("permission_id NOT IN ?", keep)
		}

		if err := drop.Delete(&models.RolePermission{}).Error; err != nil {
			return fmt.Errorf("failed to revoke permissions: %w", err)
		}

		held := make(map[uint]struct{}, len(role.Permissions))
		for _, p := range role.Permissions {
			held[p.ID] = struct{}{}
		}

		return insert(tx, role.ID, perms, held)
	})
	if err != nil {
		return nil, err
	}

	return Find(db, id)
}

// Delete soft deletes the role unless it still holds permissions, in which
// case nothing is deleted and ErrRoleHasPermissions is returned.
// The given role is returned as the snapshot of the deleted record.
func Delete(db *gorm.DB, role *models.Role) (*models.Role, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if role == nil {
		return nil, ErrRoleNotFound
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.RolePermission{}).Where("role_id = ?", role.ID).Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrRoleHasPermissions
		}

		res := tx.Delete(&models.Role{}, role.ID)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			return ErrRoleNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return role, nil
}

func nameInUse(db *gorm.DB, name string, exceptID uint) (bool, error) {
	var count int64

	q := db.Model(&models.Role{}).Where("name = ?", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// grant resolves ids and inserts the permissions not in held.
func grant(tx *gorm.DB, roleID uint, ids []uint, held map[uint]struct{}) error {
	perms, err := permission.FindByIDs(tx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve permissions: %w", err)
	}

	return insert(tx, roleID, perms, held)
}

func insert(tx *gorm.DB, roleID uint, perms []models.Permission, held map[uint]struct{}) error {
	rows := make([]models.RolePermission, 0, len(perms))
	for _, p := range perms {
		if _, ok := held[p.ID]; ok {
			continue
		}

		rows = append(rows, models.RolePermission{RoleID: roleID, PermissionID: p.ID})
	}

	if len(rows) == 0 {
		return nil
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to grant permissions: %w", err)
	}

	return nil
}
