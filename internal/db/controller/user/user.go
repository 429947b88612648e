// Package user provides lookups for accounts and the profile of the logged in user.
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/db/models"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailInUse is returned when another user already has the email.
	ErrEmailInUse = errors.New("email is already in use")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Name      string
	Email     string
	FirstName string
	LastName  string
	BirthDate *time.Time
	Telephone string
	Biography string
}

// FindByEmail retrieves a user by email, case-insensitively.
func FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User
	if err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &u, nil
}

// Principal loads a user with its role and the role's permissions.
// A soft deleted role leaves Role nil.
func Principal(db *gorm.DB, id uint) (*models.User, error) {
	return load(db, id, "Role.Permissions")
}

// Profile loads a user with its person record, role and permissions.
func Profile(db *gorm.DB, id uint) (*models.User, error) {
	return load(db, id, "Person", "Role.Permissions")
}

func load(db *gorm.DB, id uint, preloads ...string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	q := db
	for _, p := range preloads {
		q = q.Preload(p)
	}

	var u models.User
	if err := q.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return &u, nil
}

// Create stores a new user and hashes the plaintext password.
func Create(db *gorm.DB, u *models.User, password string) error {
	if db == nil {
		return ErrDBNil
	}

	if _, err := FindByEmail(db, u.Email); err == nil {
		return ErrEmailInUse
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := models.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.Password = hash

	return db.Create(u).Error
}

// EditProfile updates name and email of the user and its person record,
// creating the person record on first edit.
func EditProfile(db *gorm.DB, id uint, in ProfileUpdate) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Preload("Person").First(&u, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}

			return err
		}

		if in.Email != "" && !strings.EqualFold(in.Email, u.Email) {
			other, err := FindByEmail(tx, in.Email)
			if err == nil && other.ID != u.ID {
				return ErrEmailInUse
			}

			if err != nil && !errors.Is(err, ErrUserNotFound) {
				return err
			}

			u.Email = in.Email
		}

		if in.Name != "" {
			u.Name = in.Name
		}

		if err := tx.Model(&u).Select("name", "email").Updates(&u).Error; err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		person := u.Person
		if person == nil {
			person = &models.Person{UserID: u.ID}
		}

		person.FirstName = in.FirstName
		person.LastName = in.LastName
		person.BirthDate = in.BirthDate
		person.Telephone = in.Telephone
		person.Biography = in.Biography

		if err := tx.Save(person).Error; err != nil {
			return fmt.Errorf("failed to save person: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return Profile(db, id)
}
