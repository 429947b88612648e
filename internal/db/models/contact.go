package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact is a person met during an application, usually a recruiter.
type Contact struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255" json:"name"`
	Email    string `gorm:"size:255" json:"email"`
	Linkedin string `gorm:"size:255" json:"linkedin"`
	Company  string `gorm:"size:255" json:"company"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the Contact model.
func (Contact) TableName() string {
	return "contacts"
}
