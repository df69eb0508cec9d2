package models

import "time"

// Specialty is a medical specialty offered by the clinic (cardiology, pediatrics, ...).
// Doctors reference exactly one specialty.
type Specialty struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Active      bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Specialty model
func (Specialty) TableName() string {
	return "specialties"
}
