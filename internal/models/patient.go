package models

import (
	"time"

	"gorm.io/datatypes"
)

// Patient represents the patients table
type Patient struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FirstName  string         `gorm:"size:100;not null" json:"first_name"`
	LastName   string         `gorm:"size:100;not null" json:"last_name"`
	NationalID string         `gorm:"size:20;not null;uniqueIndex" json:"national_id"`
	BirthDate  datatypes.Date `gorm:"not null" json:"birth_date"`
	Phone      string         `gorm:"size:20;not null" json:"phone"`
	Email      string         `gorm:"size:254" json:"email"`
	Address    string         `gorm:"type:text" json:"address"`
	Active     bool           `gorm:"not null;default:true;index" json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Patient model
func (Patient) TableName() string {
	return "patients"
}

// DisplayName returns the patient's full name
func (p Patient) DisplayName() string {
	return p.FirstName + " " + p.LastName
}
