// Package application provides CRUD operations for job applications and their contacts.
package application

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/applytrack/applytrack/internal/db/controller/contact"
	"github.com/applytrack/applytrack/internal/db/controller/listing"
	"github.com/applytrack/applytrack/internal/db/models"
)

const contactAssoc = "Contact"

var (
	// ErrApplicationNotFound is returned when an application is not found.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrApplicationInUse is returned when an application with the same natural key exists.
	ErrApplicationInUse = errors.New("application already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

var editable = []string{
	"position",
	"company",
	"company_website",
	"link_application",
	"status",
	"notes",
	"applied_date",
}

// Key is the natural key of an application.
type Key struct {
	Position        string
	Company         string
	CompanyWebsite  string
	LinkApplication string
}

// KeyOf returns the natural key of app.
func KeyOf(app *models.Application) Key {
	return Key{
		Position:        app.Position,
		Company:         app.Company,
		CompanyWebsite:  app.CompanyWebsite,
		LinkApplication: app.LinkApplication,
	}
}

// ExistByData reports whether an application with the natural key exists.
func ExistByData(db *gorm.DB, key Key) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var count int64
	err := db.Model(&models.Application{}).
		Where("position = ? AND company = ? AND company_website = ? AND link_application = ?",
			key.Position, key.Company, key.CompanyWebsite, key.LinkApplication).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Create stores the application and its contact in one transaction.
// An empty status defaults to Applied.
func Create(db *gorm.DB, app *models.Application) (*models.Application, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if app.Status == "" {
		app.Status = models.StatusApplied
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		exists, err := ExistByData(tx, KeyOf(app))
		if err != nil {
			return err
		}

		if exists {
			return ErrApplicationInUse
		}

		if app.Contact != nil {
			app.Contact.ID = 0
			if err := contact.Create(tx, app.Contact); err != nil {
				return fmt.Errorf("failed to create contact: %w", err)
			}

			app.ContactID = app.Contact.ID
		}

		if err := tx.Omit(clause.Associations).Create(app).Error; err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return Find(db, app.ID)
}

// Find retrieves an application by its ID together with its contact.
func Find(db *gorm.DB, id uint) (*models.Application, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var app models.Application
	if err := db.Preload(contactAssoc).First(&app, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}

		return nil, err
	}

	return &app, nil
}

// All lists applications with their contacts. A non-empty company filters with LIKE.
func All(db *gorm.DB, page listing.Page, company string) (*listing.Result[models.Application], error) {
	if db == nil {
		return nil, ErrDBNil
	}

	scope := func(tx *gorm.DB) *gorm.DB {
		if company == "" {
			return tx
		}

		return tx.Where("company LIKE ?", listing.Like(company))
	}

	return listing.Find[models.Application](db, page, scope, contactAssoc)
}

// Edit updates the application and the contact carried in app.Contact.
// The reloaded application is returned only when both updates touched a row,
// otherwise the result is nil. A partial update is not rolled back.
func Edit(db *gorm.DB, id uint, app *models.Application) (*models.Application, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if app.Status == "" {
		app.Status = models.StatusApplied
	}

	res := db.Model(&models.Application{ID: id}).Select(editable).Updates(app)
	if res.Error != nil {
		return nil, res.Error
	}

	appRows := res.RowsAffected

	if app.Contact == nil {
		return nil, nil //nolint:nilnil
	}

	updated, err := contact.Update(db, app.Contact.ID, app.Contact)
	if err != nil {
		return nil, err
	}

	if appRows == 0 || updated == nil {
		return nil, nil //nolint:nilnil
	}

	return Find(db, id)
}

// Destroy soft deletes the application and returns the record passed by the caller.
func Destroy(db *gorm.DB, id uint, existing *models.Application) (*models.Application, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	res := db.Delete(&models.Application{}, id)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, ErrApplicationNotFound
	}

	return existing, nil
}
