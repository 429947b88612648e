// Package contact provides CRUD operations for application contacts.
package contact

import (
	"errors"

	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/db/controller/listing"
	"github.com/applytrack/applytrack/internal/db/models"
)

var (
	// ErrContactNotFound is returned when a contact is not found.
	ErrContactNotFound = errors.New("contact not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// editable lists the columns Update writes, zero values included.
var editable = []string{"name", "email", "linkedin", "company"}

// Create stores a new contact.
func Create(db *gorm.DB, c *models.Contact) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(c).Error
}

// GetByID retrieves a contact by its ID.
func GetByID(db *gorm.DB, id uint) (*models.Contact, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Contact
	if err := db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}

		return nil, err
	}

	return &c, nil
}

// All lists contacts. A non-empty term is matched with LIKE against name, company and email.
func All(db *gorm.DB, page listing.Page, term string) (*listing.Result[models.Contact], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	scope := func(tx *gorm.DB) *gorm.DB {
		if term == "" {
			return tx
		}

		like := listing.Like(term)

		return tx.Where("name LIKE ? OR company LIKE ? OR email LIKE ?", like, like, like)
	}

	return listing.Find[models.Contact](db, page, scope)
}

// Update writes the editable fields of c to the contact with the given id.
// It returns nil without error when no row was updated.
func Update(db *gorm.DB, id uint, c *models.Contact) (*models.Contact, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	res := db.Model(&models.Contact{ID: id}).Select(editable).Updates(c)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, nil //nolint:nilnil
	}

	return GetByID(db, id)
}

// Destroy soft deletes the contact and returns the record passed by the caller.
func Destroy(db *gorm.DB, id uint, existing *models.Contact) (*models.Contact, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	res := db.Delete(&models.Contact{}, id)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, ErrContactNotFound
	}

	return existing, nil
}
