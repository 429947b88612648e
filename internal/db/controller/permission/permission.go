// Package permission provides read access to the permission catalog.
package permission

import (
	"errors"

	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/db/models"
)

var (
	// ErrPermissionNotFound is returned when a permission is not found.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// All returns the whole catalog ordered by id.
func All(db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	perms := make([]models.Permission, 0)
	if err := db.Order("id ASC").Find(&perms).Error; err != nil {
		return nil, err
	}

	return perms, nil
}

// FindByName retrieves a permission by its name.
func FindByName(db *gorm.DB, name string) (*models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Permission
	if err := db.Where("name = ?", name).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}

		return nil, err
	}

	return &p, nil
}

// FindByIDs resolves ids against the catalog. Unknown ids are dropped and
// duplicates collapse, so the result holds each permission once.
func FindByIDs(db *gorm.DB, ids []uint) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	perms := make([]models.Permission, 0, len(ids))
	if len(ids) == 0 {
		return perms, nil
	}

	if err := db.Where("id IN ?", ids).Order("id ASC").Find(&perms).Error; err != nil {
		return nil, err
	}

	return perms, nil
}

// Ensure creates every named permission that is not in the catalog yet and
// returns the catalog entries for names in the given order.
func Ensure(db *gorm.DB, names ...string) ([]models.Permission, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	perms := make([]models.Permission, 0, len(names))
	for _, name := range names {
		p := models.Permission{Name: name}
		if err := db.Where(models.Permission{Name: name}).
			Attrs(models.Permission{Description: "Allows " + name}).
			FirstOrCreate(&p).Error; err != nil {
			return nil, err
		}

		perms = append(perms, p)
	}

	return perms, nil
}
