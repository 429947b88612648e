package models

import (
	"time"

	"gorm.io/gorm"
)

// ApplicationStatus is the stage a job application is in.
type ApplicationStatus string

const (
	// StatusApplied is the initial status of every application.
	StatusApplied ApplicationStatus = "Applied"
	// StatusInterview means a first interview is scheduled or done.
	StatusInterview ApplicationStatus = "Interview"
	// StatusCodeChallenge means a take-home or live coding task was requested.
	StatusCodeChallenge ApplicationStatus = "Code Challenge"
	// StatusTechnicalInterview means a technical interview is scheduled or done.
	StatusTechnicalInterview ApplicationStatus = "Technical Interview"
	// StatusOffer means an offer was received.
	StatusOffer ApplicationStatus = "Offer"
	// StatusRejected closes the application.
	StatusRejected ApplicationStatus = "Rejected"
)

// Application is a job application together with its contact.
// Position, company, company website and application link form its natural key.
type Application struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	Position        string            `gorm:"size:255;not null" json:"position"`
	Company         string            `gorm:"size:255;not null;index" json:"company"`
	CompanyWebsite  string            `gorm:"size:255" json:"companyWebsite"`
	LinkApplication string            `gorm:"type:text" json:"linkApplication"`
	Status          ApplicationStatus `gorm:"type:varchar(32);not null;default:'Applied'" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes"`
	AppliedDate     time.Time         `gorm:"not null" json:"appliedDate"`
	ContactID       uint              `json:"contactId"`
	Contact         *Contact          `gorm:"foreignKey:ContactID" json:"contact,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the database table name for the Application model.
func (Application) TableName() string {
	return "applications"
}

// ApplicationStatuses returns every status in pipeline order.
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusApplied,
		StatusInterview,
		StatusCodeChallenge,
		StatusTechnicalInterview,
		StatusOffer,
		StatusRejected,
	}
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses() {
		if s == known {
			return true
		}
	}

	return false
}
