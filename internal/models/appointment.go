package models

import (
	"time"

	"gorm.io/datatypes"
)

// AppointmentStatus is the lifecycle label of an appointment.
// Any status may be set at any time; there is no transition guard.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// AppointmentStatuses lists every accepted status value
var AppointmentStatuses = []AppointmentStatus{StatusPending, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the known statuses
func (s AppointmentStatus) Valid() bool {
	for _, known := range AppointmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Appointment represents the appointments table.
// Patient and Doctor are non-owning references; soft-deleting either leaves the appointment untouched.
type Appointment struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	PatientID uint              `gorm:"not null;index" json:"patient_id"`
	DoctorID  uint              `gorm:"not null;index" json:"doctor_id"`
	Date      datatypes.Date    `gorm:"not null;index" json:"date"`
	Time      datatypes.Time    `gorm:"not null" json:"time"`
	Reason    string            `gorm:"type:text;not null" json:"reason"`
	Diagnosis string            `gorm:"type:text" json:"diagnosis"`
	Status    AppointmentStatus `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	Active    bool              `gorm:"not null;default:true;index" json:"active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// TableName specifies the table name for Appointment model
func (Appointment) TableName() string {
	return "appointments"
}
