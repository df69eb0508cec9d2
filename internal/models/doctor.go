package models

import "time"

// Doctor represents the doctors table.
// LicenseID is the business key: unique across active and inactive rows and never changed after creation.
type Doctor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"size:100;not null" json:"first_name"`
	LastName    string    `gorm:"size:100;not null" json:"last_name"`
	LicenseID   string    `gorm:"size:20;not null;uniqueIndex" json:"license_id"`
	Phone       string    `gorm:"size:20;not null" json:"phone"`
	Email       string    `gorm:"size:254" json:"email"`
	SpecialtyID uint      `gorm:"not null;index" json:"specialty_id"`
	Active      bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Specialty *Specialty `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
}

// TableName specifies the table name for Doctor model
func (Doctor) TableName() string {
	return "doctors"
}

// DisplayName returns the name shown in listings and select boxes
func (d Doctor) DisplayName() string {
	return "Dr. " + d.FirstName + " " + d.LastName
}
