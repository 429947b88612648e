package models

import (
	"time"

	"gorm.io/gorm"
)

// Person carries the profile data of a user.
type Person struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"userId"`
	FirstName string     `gorm:"size:100" json:"firstName"`
	LastName  string     `gorm:"size:100" json:"lastName"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Telephone string     `gorm:"size:50" json:"telephone"`
	Biography string     `gorm:"type:text" json:"biography"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the Person model.
func (Person) TableName() string {
	return "persons"
}
